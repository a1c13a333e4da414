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

// CommunityService holds the user's rankings of the seeded community lists
// and computes live scores from them.
//
// Scores only ever see this user's submission. Aggregating many users would
// need a collection and batch layer that does not exist here.
type CommunityService struct {
	store   *store.Store
	persist Persister
	logger  *slog.Logger

	mu       sync.RWMutex
	catalog  []domain.CommunityList
	rankings map[string]domain.UserCommunityRanking
	// legacy holds old-format records whose list is not in the catalog.
	legacy map[string][]string
}

// NewCommunityService creates a community service over the seed's lists.
func NewCommunityService(st *store.Store, p Persister, sd *seed.Seed, logger *slog.Logger) *CommunityService {
	s := &CommunityService{
		store:    st,
		persist:  p,
		logger:   orDiscard(logger),
		rankings: make(map[string]domain.UserCommunityRanking),
		legacy:   make(map[string][]string),
	}
	if sd != nil {
		s.catalog = sd.Community
	}
	return s
}

// SetSeed swaps the community catalog after a seed reload. Existing rankings
// are kept; those for lists that disappeared are ignored until they return.
// Held legacy records whose list is back are migrated.
func (s *CommunityService) SetSeed(sd *seed.Seed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = sd.Community

	if n := s.migrateLocked(); n > 0 {
		s.logger.Info("migrated legacy community rankings", "count", n)
		s.persistLocked()
	}
}

// Load reads persisted rankings and migrates legacy orderedIds records into
// slots, resolving ids to titles through the seed. Migrated data is written
// back once. Legacy records for lists outside the seed are kept as they are.
func (s *CommunityService) Load(ctx context.Context) error {
	recs, err := s.store.GetCommunityRankings(ctx)
	if err != nil {
		return fmt.Errorf("load community rankings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rankings = recs.Rankings
	s.legacy = recs.Legacy

	n := s.migrateLocked()
	if len(s.legacy) > 0 {
		s.logger.Warn("keeping legacy rankings for unknown community lists", "count", len(s.legacy))
	}
	if n > 0 {
		s.logger.Info("migrated legacy community rankings", "count", n)
		s.persistLocked()
	}
	return nil
}

// migrateLocked converts held legacy records whose list is in the catalog and
// returns how many were converted.
func (s *CommunityService) migrateLocked() int {
	n := 0
	for listID, orderedIDs := range s.legacy {
		list, ok := s.listLocked(listID)
		if !ok {
			continue
		}
		delete(s.legacy, listID)
		if _, exists := s.rankings[listID]; exists {
			continue
		}
		s.rankings[listID] = MigrateLegacyRanking(list, orderedIDs)
		n++
	}
	return n
}

// MigrateLegacyRanking converts an ordered id list into slots. Ids not found in
// the list become empty slots; entries past the tenth are dropped. A record
// with at least one resolved title counts as submitted, as the old format was
// only written on submit.
func MigrateLegacyRanking(list domain.CommunityList, orderedIDs []string) domain.UserCommunityRanking {
	titles := make(map[string]string, len(list.Items))
	for _, it := range list.Items {
		titles[it.ID] = it.Title
	}

	var r domain.UserCommunityRanking
	for i, itemID := range orderedIDs {
		if i >= domain.MaxItems {
			break
		}
		r.Slots[i] = titles[itemID]
	}
	r.Submitted = r.FilledCount() > 0
	return r
}

// Lists returns the community catalog.
func (s *CommunityService) Lists() []domain.CommunityList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.catalog)
}

// List returns one community list.
func (s *CommunityService) List(listID string) (domain.CommunityList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, ok := s.listLocked(listID)
	if !ok {
		return domain.CommunityList{}, domainerrors.NotFoundf("community list %s not found", listID)
	}
	return list, nil
}

// Ranking returns the user's ranking, or a default one pre-filled with the
// list's titles in seed order. Defaults are not stored until edited.
func (s *CommunityService) Ranking(listID string) (domain.UserCommunityRanking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rankingLocked(listID)
}

// SetUserSlots overwrites the slots, keeping the submitted flag.
func (s *CommunityService) SetUserSlots(listID string, slots [domain.MaxItems]string) (domain.UserCommunityRanking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.rankingLocked(listID)
	if err != nil {
		return r, err
	}
	r.Slots = slots
	s.rankings[listID] = r
	s.persistLocked()
	return r, nil
}

// SubmitRanking marks the ranking submitted. Submitting again just replaces
// the contribution, since scores are recomputed from the current slots.
func (s *CommunityService) SubmitRanking(listID string) (domain.UserCommunityRanking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.rankingLocked(listID)
	if err != nil {
		return r, err
	}
	r.Submitted = true
	s.rankings[listID] = r
	s.persistLocked()
	return r, nil
}

// State reports whether the user has not touched, is editing, or has submitted the list.
func (s *CommunityService) State(listID string) (domain.RankingState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.listLocked(listID); !ok {
		return "", domainerrors.NotFoundf("community list %s not found", listID)
	}
	r, ok := s.rankings[listID]
	switch {
	case !ok:
		return domain.RankingUnranked, nil
	case r.Submitted:
		return domain.RankingSubmitted, nil
	default:
		return domain.RankingDrafting, nil
	}
}

// GetLiveScores returns item id -> seed score plus the submitted ranking's points.
func (s *CommunityService) GetLiveScores(listID string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, ok := s.listLocked(listID)
	if !ok {
		return nil, domainerrors.NotFoundf("community list %s not found", listID)
	}
	return LiveScores(list, s.rankings[listID]), nil
}

// RankedItems returns the list's items by live score, highest first. Ties
// keep seed order.
func (s *CommunityService) RankedItems(listID string) ([]domain.ScoredItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, ok := s.listLocked(listID)
	if !ok {
		return nil, domainerrors.NotFoundf("community list %s not found", listID)
	}
	scores := LiveScores(list, s.rankings[listID])

	out := make([]domain.ScoredItem, len(list.Items))
	for i, it := range list.Items {
		out[i] = domain.ScoredItem{CommunityItem: it, Score: scores[it.ID]}
	}
	slices.SortStableFunc(out, func(a, b domain.ScoredItem) int {
		return b.Score - a.Score
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// LiveScores adds (10 - slot index) to every item whose folded title equals
// a slot of a submitted ranking. Unsubmitted rankings contribute nothing.
func LiveScores(list domain.CommunityList, r domain.UserCommunityRanking) map[string]int {
	scores := make(map[string]int, len(list.Items))
	for _, it := range list.Items {
		scores[it.ID] = it.SeedScore
	}
	if !r.Submitted {
		return scores
	}

	folded := make([]string, len(list.Items))
	for i, it := range list.Items {
		folded[i] = domain.FoldTitle(it.Title)
	}
	for slot, title := range r.Slots {
		key := domain.FoldTitle(title)
		if key == "" {
			continue
		}
		for i, it := range list.Items {
			if folded[i] == key {
				scores[it.ID] += domain.SlotPoints(slot)
			}
		}
	}
	return scores
}

// DefaultRanking pre-fills the slots with the list's titles in order.
func DefaultRanking(list domain.CommunityList) domain.UserCommunityRanking {
	var r domain.UserCommunityRanking
	for i, it := range list.Items {
		if i >= domain.MaxItems {
			break
		}
		r.Slots[i] = it.Title
	}
	return r
}

func (s *CommunityService) rankingLocked(listID string) (domain.UserCommunityRanking, error) {
	list, ok := s.listLocked(listID)
	if !ok {
		return domain.UserCommunityRanking{}, domainerrors.NotFoundf("community list %s not found", listID)
	}
	if r, ok := s.rankings[listID]; ok {
		return r, nil
	}
	return DefaultRanking(list), nil
}

func (s *CommunityService) listLocked(listID string) (domain.CommunityList, bool) {
	i := slices.IndexFunc(s.catalog, func(l domain.CommunityList) bool { return l.ID == listID })
	if i < 0 {
		return domain.CommunityList{}, false
	}
	return s.catalog[i], true
}

func (s *CommunityService) persistLocked() {
	doc := store.CommunityRecords{Rankings: s.rankings, Legacy: s.legacy}.Document()
	enqueue(s.persist, s.logger, store.KeyCommunityRankings, doc)
}
