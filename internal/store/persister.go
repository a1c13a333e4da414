package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/toptenapp/topten-server/internal/metrics"
)

// Writer is the storage side of the Persister.
type Writer interface {
	Put(ctx context.Context, key string, data []byte) error
}

// SyncState summarizes persistence health for the UI.
type SyncState string

const (
	SyncStateSynced  SyncState = "synced"
	SyncStatePending SyncState = "pending"
	SyncStateFailed  SyncState = "failed"
)

// PersistStatus is a point-in-time view of the Persister.
type PersistStatus struct {
	State         SyncState `json:"state"`
	Pending       int       `json:"pending"`
	Failures      int64     `json:"failures"`
	LastError     string    `json:"last_error,omitempty"`
	LastErrorKey  string    `json:"last_error_key,omitempty"`
	LastErrorAt   time.Time `json:"last_error_at,omitzero"`
	LastSuccessAt time.Time `json:"last_success_at,omitzero"`
}

// PersisterOptions configures retries.
type PersisterOptions struct {
	MaxRetries int
	RetryDelay time.Duration
}

// Persister writes document snapshots in the background.
//
// Only the latest snapshot per key is kept: enqueueing a key that is already
// pending replaces the older snapshot. A single worker drains the queue in
// first-enqueued order. Failed writes are retried with exponential backoff and
// then dropped; the failure is logged, counted and reported by Status.
type Persister struct {
	w       Writer
	logger  *slog.Logger
	metrics *metrics.Metrics
	opts    PersisterOptions

	mu      sync.Mutex
	pending map[string][]byte
	order   []string
	busy    bool
	closed  bool
	waiters []chan struct{}
	status  PersistStatus

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewPersister starts the worker goroutine. Call Close to stop it.
func NewPersister(w Writer, logger *slog.Logger, m *metrics.Metrics, opts PersisterOptions) *Persister {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 250 * time.Millisecond
	}

	p := &Persister{
		w:       w,
		logger:  logger,
		metrics: m,
		opts:    opts,
		pending: make(map[string][]byte),
		status:  PersistStatus{State: SyncStateSynced},
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Enqueue snapshots value and schedules it for writing under key.
// It never blocks on storage.
func (p *Persister) Enqueue(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPersisterClosed
	}
	if _, ok := p.pending[key]; !ok {
		p.order = append(p.order, key)
	}
	p.pending[key] = data
	n := len(p.pending)
	p.mu.Unlock()

	p.metrics.PersistPending(n)

	select {
	case p.wake <- struct{}{}:
	default:
	}
	return nil
}

// Flush blocks until every snapshot enqueued so far has been attempted, or ctx is done.
func (p *Persister) Flush(ctx context.Context) error {
	p.mu.Lock()
	if len(p.pending) == 0 && !p.busy {
		p.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	p.waiters = append(p.waiters, ch)
	p.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status reports queue depth and the most recent failure.
func (p *Persister) Status() PersistStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := p.status
	st.Pending = len(p.pending)
	if p.busy {
		st.Pending++
	}
	switch {
	case st.Pending > 0:
		st.State = SyncStatePending
	case !st.LastErrorAt.IsZero() && st.LastErrorAt.After(st.LastSuccessAt):
		st.State = SyncStateFailed
	default:
		st.State = SyncStateSynced
	}
	return st
}

// Close drains the queue and stops the worker.
func (p *Persister) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.stop)
	<-p.done
	return nil
}

func (p *Persister) run() {
	defer close(p.done)

	for {
		if key, data, ok := p.next(); ok {
			p.write(key, data)
			continue
		}

		select {
		case <-p.wake:
		case <-p.stop:
			for {
				key, data, ok := p.next()
				if !ok {
					return
				}
				p.write(key, data)
			}
		}
	}
}

// next pops the oldest pending key. When the queue is empty it releases Flush waiters.
func (p *Persister) next() (string, []byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.order) > 0 {
		key := p.order[0]
		p.order = p.order[1:]
		data, ok := p.pending[key]
		if !ok {
			continue
		}
		delete(p.pending, key)
		p.busy = true
		p.metrics.PersistPending(len(p.pending))
		return key, data, true
	}

	p.busy = false
	for _, ch := range p.waiters {
		close(ch)
	}
	p.waiters = nil
	return "", nil, false
}

func (p *Persister) write(key string, data []byte) {
	delay := p.opts.RetryDelay

	for attempt := 0; ; attempt++ {
		err := p.w.Put(context.Background(), key, data)
		if err == nil {
			p.mu.Lock()
			p.status.LastSuccessAt = time.Now()
			p.mu.Unlock()
			p.metrics.PersistWrite(key, "ok")
			return
		}

		if attempt >= p.opts.MaxRetries {
			p.recordFailure(key, err)
			return
		}

		p.metrics.PersistWrite(key, "retry")
		if p.logger != nil {
			p.logger.Warn("persist failed, retrying", "key", key, "attempt", attempt+1, "error", err)
		}

		time.Sleep(delay)
		delay *= 2

		if p.superseded(key) {
			p.metrics.PersistWrite(key, "superseded")
			return
		}
	}
}

// superseded reports whether a newer snapshot of key is waiting.
func (p *Persister) superseded(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.pending[key]
	return ok
}

func (p *Persister) recordFailure(key string, err error) {
	p.mu.Lock()
	p.status.Failures++
	p.status.LastError = err.Error()
	p.status.LastErrorKey = key
	p.status.LastErrorAt = time.Now()
	p.mu.Unlock()

	p.metrics.PersistWrite(key, "failed")
	if p.logger != nil {
		p.logger.Error("persist failed, giving up", "key", key, "retries", p.opts.MaxRetries, "error", err)
	}
}
