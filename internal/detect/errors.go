package detect

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes detection failures.
type ErrorKind string

const (
	// KindTimeout means no completion signal was observed before the
	// detector's deadline. Distinct from context cancellation so callers can
	// report "agent appears stuck" instead of hanging or misreporting.
	KindTimeout ErrorKind = "timeout"
	// KindWatch means filesystem watching was unavailable and polling was
	// disabled, leaving the detector with no trigger source.
	KindWatch ErrorKind = "watch_unavailable"
)

// DetectionError describes a completion-detection failure.
type DetectionError struct {
	Path  string
	Kind  ErrorKind
	Cause error
}

func (e *DetectionError) Error() string {
	var detail string
	switch e.Kind {
	case KindTimeout:
		detail = "no completion event observed before the deadline"
	case KindWatch:
		detail = "filesystem watching unavailable and polling disabled"
	default:
		detail = "detection failed"
	}
	msg := fmt.Sprintf("completion detection failed for %s (%s): %s", e.Path, e.Kind, detail)
	if e.Cause != nil {
		msg += "; cause: " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *DetectionError) Unwrap() error {
	return e.Cause
}

// IsTimeout reports whether err is a detection timeout.
func IsTimeout(err error) bool {
	var detErr *DetectionError
	if !errors.As(err, &detErr) {
		return false
	}
	return detErr.Kind == KindTimeout
}
