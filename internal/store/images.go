package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/toptenapp/topten-server/internal/domain"
)

// GetCachedImage returns the cached image for scope/id.
// Returns nil, nil when absent or older than ttl. A zero ttl never expires.
func (s *Store) GetCachedImage(ctx context.Context, scope, id string, ttl time.Duration) (*domain.CachedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cached domain.CachedImage
	if err := s.get([]byte(ImageKey(scope, id)), &cached); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached image: %w", err)
	}

	if ttl > 0 && time.Since(cached.FetchedAt) > ttl {
		return nil, nil // Treat as cache miss
	}
	return &cached, nil
}

// SetCachedImage stores a resolved image. An empty URL records a negative result.
func (s *Store) SetCachedImage(ctx context.Context, scope, id string, img domain.CachedImage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if img.FetchedAt.IsZero() {
		img.FetchedAt = time.Now()
	}
	return s.set([]byte(ImageKey(scope, id)), img)
}

// DeleteCachedImage removes a cached image.
func (s *Store) DeleteCachedImage(ctx context.Context, scope, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.delete([]byte(ImageKey(scope, id)))
}
