// Package telemetry normalizes agent telemetry events across schema variants
// and classifies them. Agent CLIs emit OTLP-ish JSON objects whose attribute
// map has moved between schema versions; everything downstream works on the
// extracted map so call sites never branch on schema shape.
package telemetry

// ExtractAttributes returns the event's attribute map, probing the known
// locations in order: event.attributes, event.resource.attributes,
// event.body.attributes. Returns nil when none is present.
func ExtractAttributes(event map[string]any) map[string]any {
	if event == nil {
		return nil
	}
	if attrs, ok := event["attributes"].(map[string]any); ok {
		return attrs
	}
	if resource, ok := event["resource"].(map[string]any); ok {
		if attrs, ok := resource["attributes"].(map[string]any); ok {
			return attrs
		}
	}
	if body, ok := event["body"].(map[string]any); ok {
		if attrs, ok := body["attributes"].(map[string]any); ok {
			return attrs
		}
	}
	return nil
}

// ChooseAttr returns the first string value among the candidate keys.
// Supports key drift between schema versions (e.g. "event.name" vs
// "event_name") without branching at every call site.
func ChooseAttr(attrs map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := attrs[key].(string); ok {
			return v
		}
	}
	return ""
}
