// Package ratelimit provides per-key token bucket limiters for outbound calls
// and inbound client throttling.
package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastUsed atomic.Uint64 // limiter tick, not wall time
	pinned   bool
}

// KeyedRateLimiter manages per-key rate limiting.
// Each key gets its own bucket; keys without an override use the default limit.
//
// With a key cap set, creating a bucket beyond the cap evicts the least
// recently used one. Keys given their own rate with SetLimit are never evicted.
type KeyedRateLimiter struct {
	mu       sync.RWMutex
	buckets  map[string]*bucket
	limit    rate.Limit
	burst    int
	maxKeys  int
	unpinned int // buckets that can be evicted
	ticks    atomic.Uint64
}

// New creates a limiter whose keys default to rps requests per second with the given burst.
func New(rps float64, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

// SetMaxKeys caps the number of default-rate buckets kept. Zero means no cap.
func (krl *KeyedRateLimiter) SetMaxKeys(n int) {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	krl.maxKeys = max(n, 0)
}

// SetLimit gives key its own rate, replacing any bucket already created for it.
func (krl *KeyedRateLimiter) SetLimit(key string, rps float64, burst int) {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	if old, ok := krl.buckets[key]; ok && !old.pinned {
		krl.unpinned--
	}
	b := &bucket{limiter: rate.NewLimiter(rate.Limit(rps), burst), pinned: true}
	b.lastUsed.Store(krl.ticks.Add(1))
	krl.buckets[key] = b
}

// Allow reports whether a request for key may proceed now. It never blocks.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Wait blocks until a request for key is allowed or ctx is done.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.getLimiter(key).Wait(ctx)
}

// getLimiter returns the limiter for a key, creating one if needed.
func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	krl.mu.RLock()
	b, exists := krl.buckets[key]
	krl.mu.RUnlock()

	if exists {
		b.lastUsed.Store(krl.ticks.Add(1))
		return b.limiter
	}

	krl.mu.Lock()
	defer krl.mu.Unlock()

	// Double-check after acquiring write lock
	if b, exists = krl.buckets[key]; exists {
		b.lastUsed.Store(krl.ticks.Add(1))
		return b.limiter
	}

	if krl.maxKeys > 0 && krl.unpinned >= krl.maxKeys {
		krl.evictLocked()
	}

	b = &bucket{limiter: rate.NewLimiter(krl.limit, krl.burst)}
	b.lastUsed.Store(krl.ticks.Add(1))
	krl.buckets[key] = b
	krl.unpinned++
	return b.limiter
}

// evictLocked drops the least recently used unpinned bucket.
func (krl *KeyedRateLimiter) evictLocked() {
	var (
		oldestKey string
		oldest    uint64
		found     bool
	)
	for key, b := range krl.buckets {
		if b.pinned {
			continue
		}
		if used := b.lastUsed.Load(); !found || used < oldest {
			oldestKey, oldest, found = key, used, true
		}
	}
	if found {
		delete(krl.buckets, oldestKey)
		krl.unpinned--
	}
}
