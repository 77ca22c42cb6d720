package msgsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/handoff-dev/handoff/internal/jsonstream"
)

// StorageSource is the last tier: a direct read of on-disk message storage.
// Session files are concatenated JSON objects, the same format as telemetry
// streams, so the incremental stream parser handles them.
type StorageSource struct {
	dir string
}

// NewStorageSource returns a Source reading session files from dir. A
// session's messages live at <dir>/<sessionID>.json.
func NewStorageSource(dir string) *StorageSource {
	return &StorageSource{dir: dir}
}

// Name implements Source.
func (s *StorageSource) Name() string { return "storage" }

// Fetch implements Source. It fails only when no session file could be read.
func (s *StorageSource) Fetch(ctx context.Context, sessionIDs []string) ([]Message, error) {
	var messages []Message
	var errs []error
	succeeded := 0
	for _, id := range sessionIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msgs, err := s.readSession(id)
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

func (s *StorageSource) readSession(sessionID string) ([]Message, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, sessionID+".json"))
	if err != nil {
		return nil, err
	}

	var messages []Message
	parser := jsonstream.New(func(obj map[string]any) {
		// Round-trip through JSON to reuse the Message field mapping.
		raw, err := json.Marshal(obj)
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			return
		}
		messages = append(messages, msg)
	})
	parser.Feed(string(data))
	return messages, nil
}
