// Package msgsource confirms that an agent session actually produced
// successful work before an idle signal is trusted as completion. Sessions
// can look idle because they finished, or because they errored before
// producing any output; firing completion on the latter is a false positive.
//
// Message history is read through a chain of sources tried in priority
// order: the in-process client, an HTTP fallback against the same local
// server, and finally the on-disk session storage. Each tier is consulted
// only after the previous one demonstrably failed.
package msgsource

import (
	"context"
	"log"
)

// Message is the normalized view of one session message.
type Message struct {
	Role       string        `json:"role"`
	Text       string        `json:"text,omitempty"`
	StopReason string        `json:"stop_reason,omitempty"`
	Err        *MessageError `json:"error,omitempty"`
}

// MessageError is an explicit error recorded on a message.
type MessageError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Source reads the message history for a set of sessions. Implementations
// return an error only when they could not produce results for any session;
// per-session failures inside a tier are tolerated as long as at least one
// session was read.
type Source interface {
	Name() string
	Fetch(ctx context.Context, sessionIDs []string) ([]Message, error)
}

// errorStopReasons are finish markers that indicate the turn ended abnormally.
var errorStopReasons = map[string]bool{
	"error":    true,
	"aborted":  true,
	"canceled": true,
	"failed":   true,
}

// confirmed reports whether the messages contain at least one assistant
// message with no explicit error and a non-error finish marker.
func confirmed(messages []Message) bool {
	for _, m := range messages {
		if m.Role != "assistant" || m.Err != nil {
			continue
		}
		if m.StopReason != "" && !errorStopReasons[m.StopReason] {
			return true
		}
	}
	return false
}

// Inspector runs the tiered confirmation.
type Inspector struct {
	sources []Source
}

// NewInspector returns an Inspector trying sources in the given order.
func NewInspector(sources ...Source) *Inspector {
	return &Inspector{sources: sources}
}

// ConfirmCompletion reports whether the sessions produced confirmable
// successful work. A tier is skipped over only when it failed: it returned an
// error, or it returned zero messages despite known sessions. Ambiguity is
// answered with (false, nil) rather than an error: suppressing the completion
// signal is the correct response to signals that cannot be confirmed.
func (in *Inspector) ConfirmCompletion(ctx context.Context, sessionIDs []string) (bool, error) {
	if len(sessionIDs) == 0 {
		// No sessions means no work happened at all.
		return false, nil
	}

	for _, src := range in.sources {
		messages, err := src.Fetch(ctx, sessionIDs)
		if err != nil {
			log.Printf("[debug] Message source %s failed, trying next tier: %v", src.Name(), err)
			continue
		}
		if len(messages) == 0 {
			// Known sessions but nothing readable from this tier: treat as a
			// tier failure, not as evidence of an empty run.
			log.Printf("[debug] Message source %s returned no messages for %d sessions, trying next tier", src.Name(), len(sessionIDs))
			continue
		}
		return confirmed(messages), nil
	}

	log.Printf("[debug] No message source could confirm work for %d sessions; suppressing completion", len(sessionIDs))
	return false, nil
}
