// Package detect resolves when a remote agent run has finished its turn. Two
// signal sources are supported: sentinel marker files whose existence alone
// signals completion, and append-only telemetry files whose content is
// inspected for a completion event. Each detector call is an independent
// single-fire operation; all state is scoped to the call.
package detect

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// markerPollInterval drives the fallback poll used when a directory watch
// cannot be established (some filesystems don't support inotify).
const markerPollInterval = time.Second

// AwaitMarker blocks until markerPath exists, the context is canceled, or an
// unrecoverable setup failure occurs. It returns nil exactly once per call;
// a marker that already exists resolves immediately without watching.
//
// watchDir is watched for any filesystem event whose filename equals
// markerFilename. Existence is re-checked after the watch is attached, so a
// marker created between the initial check and the watch cannot be missed.
func AwaitMarker(ctx context.Context, markerPath, watchDir, markerFilename string) error {
	if markerExists(markerPath) {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("[debug] Marker watcher unavailable for %s, falling back to polling: %v", watchDir, err)
		return pollForMarker(ctx, markerPath)
	}
	defer watcher.Close()

	if err := watcher.Add(watchDir); err != nil {
		log.Printf("[debug] Could not watch %s, falling back to polling: %v", watchDir, err)
		return pollForMarker(ctx, markerPath)
	}

	// The marker may have been created between the existence check and the
	// watch attachment; without this re-check it would go unnoticed until
	// the next unrelated directory event.
	if markerExists(markerPath) {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return pollForMarker(ctx, markerPath)
			}
			if filepath.Base(event.Name) == markerFilename {
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return pollForMarker(ctx, markerPath)
			}
			log.Printf("[debug] Marker watcher error for %s: %v", watchDir, err)
		}
	}
}

func pollForMarker(ctx context.Context, markerPath string) error {
	ticker := time.NewTicker(markerPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if markerExists(markerPath) {
				return nil
			}
		}
	}
}

func markerExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
