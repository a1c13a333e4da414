// Package service holds the repositories the API works against. Each service
// owns its slice of in-memory state behind a sync.RWMutex; mutations update
// that state synchronously and hand a full snapshot to the Persister.
package service

import (
	"log/slog"
	"time"

	"github.com/toptenapp/topten-server/internal/logger"
)

// Persister accepts whole-document snapshots for background writes.
// *store.Persister is the production implementation.
type Persister interface {
	Enqueue(key string, value any) error
}

// enqueue logs instead of failing the caller: a lost snapshot is retried by
// the next mutation of the same key, and sync status is reported separately.
func enqueue(p Persister, log *slog.Logger, key string, value any) {
	if p == nil {
		return
	}
	if err := p.Enqueue(key, value); err != nil {
		log.Warn("failed to enqueue snapshot", "key", key, "error", err)
	}
}

func orDiscard(log *slog.Logger) *slog.Logger {
	if log == nil {
		return logger.Discard()
	}
	return log
}

func utcNow() time.Time {
	return time.Now().UTC()
}
