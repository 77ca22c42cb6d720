package detect

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/handoff-dev/handoff/internal/jsonstream"
)

const (
	// DefaultPollInterval is the fallback trigger interval for filesystems
	// where native watch events are unreliable.
	DefaultPollInterval = 2 * time.Second
	// DefaultTimeout bounds how long a telemetry detector waits for a
	// completion event before reporting the agent as stuck.
	DefaultTimeout = 5 * time.Minute
)

// Options tunes a telemetry detection. Zero values select the defaults;
// negative PollInterval disables polling, negative Timeout disables the
// deadline (the context then bounds the wait).
type Options struct {
	PollInterval  time.Duration
	Timeout       time.Duration
	MaxBufferSize int
}

func (o Options) pollInterval() time.Duration {
	if o.PollInterval < 0 {
		return 0
	}
	if o.PollInterval == 0 {
		return DefaultPollInterval
	}
	return o.PollInterval
}

func (o Options) timeout() time.Duration {
	if o.Timeout < 0 {
		return 0
	}
	if o.Timeout == 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// AwaitTelemetry blocks until the file at telemetryPath contains a JSON
// object matching isCompletion, then returns nil. The file may not exist yet
// when the call starts; creation is picked up via a watch on the parent
// directory. Reads are incremental and monotonic: each trigger consumes only
// bytes appended since the previous read, so redundant triggers (watch event
// racing the poll ticker) never double-deliver bytes to the parser.
//
// Expiry of the configured timeout returns a *DetectionError with
// KindTimeout, distinguishable from context cancellation.
func AwaitTelemetry(ctx context.Context, telemetryPath string, isCompletion func(map[string]any) bool, opts Options) error {
	matched := false
	var parserOpts []jsonstream.Option
	if opts.MaxBufferSize > 0 {
		parserOpts = append(parserOpts, jsonstream.WithMaxBufferSize(opts.MaxBufferSize))
	}
	parser := jsonstream.New(func(obj map[string]any) {
		if !matched && isCompletion(obj) {
			matched = true
		}
	}, parserOpts...)

	var lastSize int64
	readNew := func() {
		f, err := os.Open(telemetryPath)
		if err != nil {
			// Not created yet, or transiently unreadable. The next trigger
			// retries.
			return
		}
		defer f.Close()

		if _, err := f.Seek(lastSize, io.SeekStart); err != nil {
			log.Printf("[debug] Telemetry seek failed for %s: %v", telemetryPath, err)
			return
		}
		data, err := io.ReadAll(f)
		if err != nil {
			log.Printf("[debug] Telemetry read failed for %s: %v", telemetryPath, err)
			return
		}
		lastSize += int64(len(data))
		parser.Feed(string(data))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("[debug] Telemetry watcher unavailable for %s, relying on polling: %v", telemetryPath, err)
		watcher = nil
	}
	if watcher != nil {
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(telemetryPath)); err != nil {
			log.Printf("[debug] Could not watch %s: %v", filepath.Dir(telemetryPath), err)
		}
	}
	fileWatched := false
	watchFile := func() {
		if watcher == nil || fileWatched {
			return
		}
		if err := watcher.Add(telemetryPath); err == nil {
			fileWatched = true
		}
	}
	watchFile()

	pollInterval := opts.pollInterval()
	if watcher == nil && pollInterval == 0 {
		return &DetectionError{Path: telemetryPath, Kind: KindWatch, Cause: err}
	}

	// The file may already contain the completion event.
	readNew()
	if matched {
		return nil
	}

	var pollC <-chan time.Time
	if pollInterval > 0 {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		pollC = ticker.C
	}

	var timeoutC <-chan time.Time
	if d := opts.timeout(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		timeoutC = timer.C
	}

	var eventC chan fsnotify.Event
	var errC chan error
	if watcher != nil {
		eventC = watcher.Events
		errC = watcher.Errors
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-timeoutC:
			return &DetectionError{Path: telemetryPath, Kind: KindTimeout}

		case event, ok := <-eventC:
			if !ok {
				eventC = nil
				errC = nil
				continue
			}
			if event.Name != telemetryPath {
				continue
			}
			if event.Has(fsnotify.Create) {
				watchFile()
			}
			readNew()
			if matched {
				return nil
			}

		case err, ok := <-errC:
			if !ok {
				eventC = nil
				errC = nil
				continue
			}
			log.Printf("[debug] Telemetry watcher error for %s: %v", telemetryPath, err)

		case <-pollC:
			watchFile()
			readNew()
			if matched {
				return nil
			}
		}
	}
}
