package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/toptenapp/topten-server/internal/domain"
)

// CachedSuggestions wraps backend results with cache info.
type CachedSuggestions struct {
	Results   []domain.Suggestion `json:"results"`
	FetchedAt time.Time           `json:"fetched_at"`
	Backend   string              `json:"backend"`
	Query     string              `json:"query"`
}

// suggestCacheKey hashes the query so arbitrary user text stays a bounded key.
func suggestCacheKey(backend, query string) []byte {
	hash := sha256.Sum256([]byte(query))
	hashStr := hex.EncodeToString(hash[:8]) // First 8 bytes = 16 hex chars
	return fmt.Appendf(nil, "%s%s:%s", suggestCacheKeyPrefix, backend, hashStr)
}

// GetCachedSuggestions retrieves cached results for backend+query.
// Returns nil, nil if not found or older than ttl.
func (s *Store) GetCachedSuggestions(ctx context.Context, backend, query string, ttl time.Duration) (*CachedSuggestions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cached CachedSuggestions
	if err := s.get(suggestCacheKey(backend, query), &cached); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached suggestions: %w", err)
	}

	// Hash collisions are possible in principle; the stored query settles it.
	if cached.Query != query {
		return nil, nil
	}

	if time.Since(cached.FetchedAt) > ttl {
		return nil, nil
	}

	return &cached, nil
}

// SetCachedSuggestions stores results for backend+query.
func (s *Store) SetCachedSuggestions(ctx context.Context, backend, query string, results []domain.Suggestion) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cached := CachedSuggestions{
		Results:   results,
		FetchedAt: time.Now(),
		Backend:   backend,
		Query:     query,
	}
	if err := s.set(suggestCacheKey(backend, query), cached); err != nil {
		return fmt.Errorf("set cached suggestions: %w", err)
	}
	return nil
}

// PurgeSuggestionCache drops every cached suggestion result and returns how many were removed.
func (s *Store) PurgeSuggestionCache(ctx context.Context) (int, error) {
	keys, err := s.Keys(ctx, suggestCacheKeyPrefix)
	if err != nil {
		return 0, err
	}
	for _, k := range keys {
		if err := s.delete([]byte(k)); err != nil {
			return 0, fmt.Errorf("purge suggestion cache: %w", err)
		}
	}
	return len(keys), nil
}
