package telemetry

import "strings"

// Predicate classifies a parsed telemetry event. Predicates are pure
// functions over the extracted attribute map; they perform no I/O.
type Predicate func(event map[string]any) bool

// NextSpeakerUser reports whether the event is a next-speaker check that
// handed the turn back to the user (Gemini-style telemetry).
func NextSpeakerUser(event map[string]any) bool {
	attrs := ExtractAttributes(event)
	if attrs == nil {
		return false
	}
	name := ChooseAttr(attrs, "event.name", "event_name")
	if !strings.HasSuffix(name, ".next_speaker_check") {
		return false
	}
	return ChooseAttr(attrs, "result") == "user"
}

// TaskToolCall reports whether the event records an explicit task-completion
// tool call (Qwen-style telemetry).
func TaskToolCall(event map[string]any) bool {
	attrs := ExtractAttributes(event)
	if attrs == nil {
		return false
	}
	return ChooseAttr(attrs, "function_name") == "complete_task"
}

// GoalTerminated reports whether the agent finished its run with an explicit
// goal termination reason.
func GoalTerminated(event map[string]any) bool {
	attrs := ExtractAttributes(event)
	if attrs == nil {
		return false
	}
	name := ChooseAttr(attrs, "event.name", "event_name")
	if !strings.HasSuffix(name, ".agent_finished") {
		return false
	}
	return ChooseAttr(attrs, "termination_reason", "reason") == "goal"
}

// predicatesByName maps CLI-facing predicate names to implementations.
var predicatesByName = map[string]Predicate{
	"next-speaker-user": NextSpeakerUser,
	"task-tool-call":    TaskToolCall,
	"goal-terminated":   GoalTerminated,
}

// PredicateByName returns the named predicate, or nil when unknown.
func PredicateByName(name string) Predicate {
	return predicatesByName[name]
}

// PredicateNames returns the known predicate names in stable order.
func PredicateNames() []string {
	return []string{"goal-terminated", "next-speaker-user", "task-tool-call"}
}
