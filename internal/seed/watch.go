package seed

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay absorbs the burst of events editors produce for a single save.
const settleDelay = 200 * time.Millisecond

// Watch reloads the seed file at path whenever it changes and passes each
// valid result to fn. Invalid files are logged and skipped, leaving the
// previous catalog in place. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, logger *slog.Logger, fn func(*Seed)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()

	// Watch the parent directory so atomic rename-on-save is seen.
	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	timer := time.NewTimer(settleDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(settleDelay)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("seed watcher error", "error", err)

		case <-timer.C:
			s, err := LoadFile(path)
			if err != nil {
				logger.Warn("ignoring invalid seed file", "path", path, "error", err)
				continue
			}
			logger.Info("seed file reloaded",
				"path", path,
				"community_lists", len(s.Community),
				"featured_lists", len(s.Featured),
			)
			fn(s)
		}
	}
}
