package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/toptenapp/topten-server/internal/domain"
	"github.com/toptenapp/topten-server/internal/store"
)

// DefaultLocationFreshness is how long a detected location is reused.
const DefaultLocationFreshness = 7 * 24 * time.Hour

// Locator resolves the caller's approximate location. *ipgeo.Client implements it.
type Locator interface {
	Locate(ctx context.Context) (*domain.DetectedLocation, error)
}

// LocationOptions configures LocationService.
type LocationOptions struct {
	Enabled   bool
	Freshness time.Duration
}

// LocationService detects and caches the user's location.
type LocationService struct {
	store   *store.Store
	persist Persister
	locator Locator
	opts    LocationOptions
	logger  *slog.Logger
	now     func() time.Time
	group   singleflight.Group

	mu     sync.RWMutex
	cached *domain.DetectedLocation
}

// NewLocationService creates a location service. A nil locator behaves as disabled.
func NewLocationService(st *store.Store, p Persister, locator Locator, logger *slog.Logger, opts LocationOptions) *LocationService {
	if opts.Freshness <= 0 {
		opts.Freshness = DefaultLocationFreshness
	}
	return &LocationService{
		store:   st,
		persist: p,
		locator: locator,
		opts:    opts,
		logger:  orDiscard(logger),
		now:     utcNow,
	}
}

// Load reads the last detected location.
func (s *LocationService) Load(ctx context.Context) error {
	loc, err := s.store.GetDetectedLocation(ctx)
	if err != nil {
		return fmt.Errorf("load detected location: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = loc
	return nil
}

// Cached returns the last detected location without a lookup.
func (s *LocationService) Cached() *domain.DetectedLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyLocation(s.cached)
}

// Detect returns a location younger than the freshness window, looking it up
// when needed. A failed lookup falls back to the stale value, or nil.
// Lookup failures are never returned.
func (s *LocationService) Detect(ctx context.Context) (*domain.DetectedLocation, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()

	if cached.Fresh(s.now(), s.opts.Freshness) || !s.opts.Enabled || s.locator == nil {
		return copyLocation(cached), nil
	}

	v, _, _ := s.group.Do("locate", func() (any, error) {
		loc, err := s.locator.Locate(context.WithoutCancel(ctx))
		if err != nil {
			s.logger.Warn("location lookup failed", "error", err, "has_stale", cached != nil)
			return nil, nil
		}
		if loc.DetectedAt.IsZero() {
			loc.DetectedAt = s.now()
		}

		s.mu.Lock()
		s.cached = loc
		enqueue(s.persist, s.logger, store.KeyDetectedLocation, loc)
		s.mu.Unlock()
		return loc, nil
	})

	if loc, ok := v.(*domain.DetectedLocation); ok && loc != nil {
		return copyLocation(loc), nil
	}
	return copyLocation(cached), nil
}

func copyLocation(l *domain.DetectedLocation) *domain.DetectedLocation {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}
