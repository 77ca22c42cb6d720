package msgsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPSource is the second tier: a REST fallback against the same local
// server the in-process client talks to. Used when the client tier failed
// (e.g. the SDK connection died while the server itself is still up).
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource returns a Source fetching from baseURL
// (e.g. "http://127.0.0.1:4096").
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Name implements Source.
func (s *HTTPSource) Name() string { return "http" }

// Fetch implements Source. It fails only when zero sessions could be fetched
// successfully.
func (s *HTTPSource) Fetch(ctx context.Context, sessionIDs []string) ([]Message, error) {
	var messages []Message
	var errs []error
	succeeded := 0
	for _, id := range sessionIDs {
		msgs, err := s.fetchSession(ctx, id)
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

func (s *HTTPSource) fetchSession(ctx context.Context, sessionID string) ([]Message, error) {
	url := fmt.Sprintf("%s/session/%s/message", s.baseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Messages []Message `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return payload.Messages, nil
}
