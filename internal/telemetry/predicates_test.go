package telemetry

import "testing"

func nextSpeakerEvent(name, result string) map[string]any {
	return map[string]any{
		"attributes": map[string]any{
			"event.name": name,
			"result":     result,
		},
	}
}

func TestNextSpeakerUser(t *testing.T) {
	tests := []struct {
		name  string
		event map[string]any
		want  bool
	}{
		{
			name:  "next speaker is user",
			event: nextSpeakerEvent("gemini_cli.next_speaker_check", "user"),
			want:  true,
		},
		{
			name:  "next speaker is model",
			event: nextSpeakerEvent("gemini_cli.next_speaker_check", "model"),
			want:  false,
		},
		{
			name:  "unrelated event",
			event: nextSpeakerEvent("gemini_cli.api_response", "user"),
			want:  false,
		},
		{
			name: "event_name schema variant",
			event: map[string]any{
				"body": map[string]any{
					"attributes": map[string]any{
						"event_name": "qwen.next_speaker_check",
						"result":     "user",
					},
				},
			},
			want: true,
		},
		{
			name:  "no attributes",
			event: map[string]any{"type": "log"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextSpeakerUser(tt.event); got != tt.want {
				t.Errorf("NextSpeakerUser() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTaskToolCall(t *testing.T) {
	match := map[string]any{
		"attributes": map[string]any{"function_name": "complete_task"},
	}
	if !TaskToolCall(match) {
		t.Error("expected complete_task call to match")
	}

	other := map[string]any{
		"attributes": map[string]any{"function_name": "read_file"},
	}
	if TaskToolCall(other) {
		t.Error("expected other tool call not to match")
	}
	if TaskToolCall(map[string]any{}) {
		t.Error("expected event without attributes not to match")
	}
}

func TestGoalTerminated(t *testing.T) {
	match := map[string]any{
		"attributes": map[string]any{
			"event.name":         "agent_cli.agent_finished",
			"termination_reason": "goal",
		},
	}
	if !GoalTerminated(match) {
		t.Error("expected goal termination to match")
	}

	timeout := map[string]any{
		"attributes": map[string]any{
			"event.name":         "agent_cli.agent_finished",
			"termination_reason": "timeout",
		},
	}
	if GoalTerminated(timeout) {
		t.Error("expected timeout termination not to match")
	}

	reasonVariant := map[string]any{
		"attributes": map[string]any{
			"event_name": "agent_cli.agent_finished",
			"reason":     "goal",
		},
	}
	if !GoalTerminated(reasonVariant) {
		t.Error("expected reason key variant to match")
	}
}

func TestPredicateByName(t *testing.T) {
	for _, name := range PredicateNames() {
		if PredicateByName(name) == nil {
			t.Errorf("expected predicate for %q", name)
		}
	}
	if PredicateByName("unknown") != nil {
		t.Error("expected nil for unknown predicate name")
	}
}
