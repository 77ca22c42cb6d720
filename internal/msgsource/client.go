package msgsource

import (
	"context"
	"errors"
	"fmt"
)

// SessionClient is the in-process SDK surface this package needs. The agent
// runtime's client satisfies it; tests inject fakes.
type SessionClient interface {
	SessionMessages(ctx context.Context, sessionID string) ([]Message, error)
}

// ClientSource is the first tier: message history via the in-process client.
type ClientSource struct {
	client SessionClient
}

// NewClientSource returns a Source backed by the given client.
func NewClientSource(client SessionClient) *ClientSource {
	return &ClientSource{client: client}
}

// Name implements Source.
func (s *ClientSource) Name() string { return "client" }

// Fetch implements Source. It fails only when no session could be read.
func (s *ClientSource) Fetch(ctx context.Context, sessionIDs []string) ([]Message, error) {
	if s.client == nil {
		return nil, errors.New("no in-process client configured")
	}

	var messages []Message
	var errs []error
	succeeded := 0
	for _, id := range sessionIDs {
		msgs, err := s.client.SessionMessages(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", id, err))
			continue
		}
		succeeded++
		messages = append(messages, msgs...)
	}

	if succeeded == 0 && len(sessionIDs) > 0 {
		return nil, errors.Join(errs...)
	}
	return messages, nil
}
