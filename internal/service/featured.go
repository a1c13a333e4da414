package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/toptenapp/topten-server/internal/domain"
	domainerrors "github.com/toptenapp/topten-server/internal/errors"
	"github.com/toptenapp/topten-server/internal/seed"
	"github.com/toptenapp/topten-server/internal/store"
)

// FeaturedService serves the editorial lists and tracks which ones were opened.
type FeaturedService struct {
	store   *store.Store
	persist Persister
	logger  *slog.Logger

	mu      sync.RWMutex
	catalog []domain.FeaturedList
	viewed  []string
}

// NewFeaturedService creates a featured service over the seed's lists.
func NewFeaturedService(st *store.Store, p Persister, sd *seed.Seed, logger *slog.Logger) *FeaturedService {
	s := &FeaturedService{
		store:   st,
		persist: p,
		logger:  orDiscard(logger),
	}
	if sd != nil {
		s.catalog = sd.Featured
	}
	return s
}

// SetSeed swaps the catalog after a seed reload.
func (s *FeaturedService) SetSeed(sd *seed.Seed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = sd.Featured
}

// Load reads the viewed set.
func (s *FeaturedService) Load(ctx context.Context) error {
	viewed, err := s.store.GetViewedFeatured(ctx)
	if err != nil {
		return fmt.Errorf("load viewed featured: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewed = viewed
	return nil
}

// List returns every featured list.
func (s *FeaturedService) List() []domain.FeaturedList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.catalog)
}

// Get returns one featured list.
func (s *FeaturedService) Get(listID string) (domain.FeaturedList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.catalog, func(l domain.FeaturedList) bool { return l.ID == listID })
	if i < 0 {
		return domain.FeaturedList{}, domainerrors.NotFoundf("featured list %s not found", listID)
	}
	return s.catalog[i], nil
}

// MarkViewed records that the user opened a list. Repeated calls are no-ops.
func (s *FeaturedService) MarkViewed(listID string) error {
	if _, err := s.Get(listID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.viewed, listID) {
		return nil
	}
	s.viewed = append(s.viewed, listID)
	enqueue(s.persist, s.logger, store.KeyFeaturedViewed, s.viewed)
	return nil
}

// Viewed reports whether the user opened the list.
func (s *FeaturedService) Viewed(listID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.viewed, listID)
}

// Unviewed returns featured lists the user has not opened yet.
func (s *FeaturedService) Unviewed() []domain.FeaturedList {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.FeaturedList, 0, len(s.catalog))
	for _, l := range s.catalog {
		if !slices.Contains(s.viewed, l.ID) {
			out = append(out, l)
		}
	}
	return out
}
