package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/toptenapp/topten-server/internal/domain"
	domainerrors "github.com/toptenapp/topten-server/internal/errors"
	"github.com/toptenapp/topten-server/internal/id"
	"github.com/toptenapp/topten-server/internal/seed"
	"github.com/toptenapp/topten-server/internal/store"
)

// ListService is the repository of the user's own lists.
type ListService struct {
	store   *store.Store
	persist Persister
	seed    *seed.Seed
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.RWMutex
	lists []domain.TopTenList
}

// NewListService creates a list service. Call Load before serving.
func NewListService(st *store.Store, p Persister, sd *seed.Seed, logger *slog.Logger) *ListService {
	return &ListService{
		store:   st,
		persist: p,
		seed:    sd,
		logger:  orDiscard(logger),
		now:     utcNow,
	}
}

// Load reads the persisted collection and appends starter lists whose ids
// are missing. The merged collection is written back when anything was added.
func (s *ListService) Load(ctx context.Context) error {
	stored, err := s.store.GetLists(ctx)
	if err != nil {
		return fmt.Errorf("load lists: %w", err)
	}

	present := make(map[string]bool, len(stored))
	for i := range stored {
		present[stored[i].ID] = true
		if stored[i].Items == nil {
			stored[i].Items = []domain.TopTenItem{}
		}
	}

	added := 0
	if s.seed != nil {
		now := s.now()
		for _, starter := range s.seed.Lists {
			if present[starter.ID] {
				continue
			}
			stored = append(stored, starter.ToList(now))
			present[starter.ID] = true
			added++
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = stored
	if added > 0 {
		s.logger.Info("merged starter lists", "added", added, "total", len(stored))
		s.persistLocked()
	}
	return nil
}

// Lists returns a copy of the collection in display order.
func (s *ListService) Lists() []domain.TopTenList {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TopTenList, len(s.lists))
	for i := range s.lists {
		out[i] = s.lists[i].Clone()
	}
	return out
}

// GetList returns a copy of one list.
func (s *ListService) GetList(listID string) (domain.TopTenList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(listID)
	if i < 0 {
		return domain.TopTenList{}, domainerrors.NotFoundf("list %s not found", listID)
	}
	return s.lists[i].Clone(), nil
}

// AddList appends a new custom list and returns its id.
// A blank title becomes "My Top 10 <category label>".
func (s *ListService) AddList(category domain.Category, title, description string) (string, error) {
	if !category.Valid() {
		return "", domainerrors.Validationf("unknown category %q", category)
	}
	if err := checkDescription(description); err != nil {
		return "", err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = "My Top 10 " + category.Meta().Label
	}

	now := s.now()
	listID, err := id.Timestamped("list", now)
	if err != nil {
		return "", fmt.Errorf("generate list id: %w", err)
	}

	list := domain.TopTenList{
		ID:          listID,
		Category:    category,
		Title:       title,
		Description: description,
		Icon:        category.Meta().Icon,
		Items:       []domain.TopTenItem{},
		CreatedAt:   now,
		IsCustom:    true,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = append(s.lists, list)
	s.persistLocked()

	s.logger.Debug("list added", "list_id", listID, "category", category)
	return listID, nil
}

// UpdateListItems replaces a list's items. Ranks must be within 1..10; when
// two items share a rank the later one replaces the earlier in place.
// Items without an id are given one.
func (s *ListService) UpdateListItems(listID string, items []domain.TopTenItem) (domain.TopTenList, error) {
	normalized, err := normalizeItems(items)
	if err != nil {
		return domain.TopTenList{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(listID)
	if i < 0 {
		return domain.TopTenList{}, domainerrors.NotFoundf("list %s not found", listID)
	}
	s.lists[i].Items = normalized
	s.persistLocked()
	return s.lists[i].Clone(), nil
}

func normalizeItems(items []domain.TopTenItem) ([]domain.TopTenItem, error) {
	out := make([]domain.TopTenItem, 0, min(len(items), domain.MaxItems))
	byRank := make(map[int]int, len(items))

	for n, item := range items {
		if item.Rank < 1 || item.Rank > domain.MaxItems {
			return nil, domainerrors.ValidationWithDetails(
				fmt.Sprintf("item %d: rank %d outside 1..%d", n, item.Rank, domain.MaxItems),
				map[string]string{fmt.Sprintf("items[%d].rank", n): "out of range"},
			)
		}
		if strings.TrimSpace(item.Title) == "" {
			return nil, domainerrors.ValidationWithDetails(
				fmt.Sprintf("item %d: title is required", n),
				map[string]string{fmt.Sprintf("items[%d].title", n): "is required"},
			)
		}
		if item.ID == "" {
			itemID, err := id.Generate("item")
			if err != nil {
				return nil, fmt.Errorf("generate item id: %w", err)
			}
			item.ID = itemID
		}
		if at, dup := byRank[item.Rank]; dup {
			out[at] = item
			continue
		}
		byRank[item.Rank] = len(out)
		out = append(out, item)
	}
	return out, nil
}

// UpdateListMeta applies a shallow patch. Changing the category resets the
// default icon; a custom icon still takes precedence.
func (s *ListService) UpdateListMeta(listID string, patch domain.ListPatch) (domain.TopTenList, error) {
	if patch.Description != nil {
		if err := checkDescription(*patch.Description); err != nil {
			return domain.TopTenList{}, err
		}
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return domain.TopTenList{}, domainerrors.Validationf("unknown category %q", *patch.Category)
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return domain.TopTenList{}, domainerrors.Validation("title must not be blank")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(listID)
	if i < 0 {
		return domain.TopTenList{}, domainerrors.NotFoundf("list %s not found", listID)
	}
	if patch.Empty() {
		return s.lists[i].Clone(), nil
	}

	list := &s.lists[i]
	if patch.Title != nil {
		list.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		list.Description = *patch.Description
	}
	if patch.CustomIcon != nil {
		list.CustomIcon = *patch.CustomIcon
	}
	if patch.ProfileImageURI != nil {
		list.ProfileImageURI = *patch.ProfileImageURI
	}
	if patch.Category != nil && *patch.Category != list.Category {
		list.Category = *patch.Category
		list.Icon = list.Category.Meta().Icon
	}

	s.persistLocked()
	return list.Clone(), nil
}

// DeleteList removes a list. Deleting an unknown id does nothing.
func (s *ListService) DeleteList(listID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(listID)
	if i < 0 {
		return
	}
	s.lists = slices.Delete(s.lists, i, i+1)
	s.persistLocked()
}

// ReorderLists replaces the collection order. ids must be a permutation of
// the current list ids.
func (s *ListService) ReorderLists(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reorderLocked(ids)
}

// MoveList shifts a list by delta positions, clamped to the collection bounds.
func (s *ListService) MoveList(listID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.indexLocked(listID)
	if from < 0 {
		return domainerrors.NotFoundf("list %s not found", listID)
	}
	to := max(0, min(len(s.lists)-1, from+delta))
	if to == from {
		return nil
	}

	ids := make([]string, 0, len(s.lists))
	for i := range s.lists {
		if i != from {
			ids = append(ids, s.lists[i].ID)
		}
	}
	ids = slices.Insert(ids, to, listID)
	return s.reorderLocked(ids)
}

func (s *ListService) reorderLocked(ids []string) error {
	if len(ids) != len(s.lists) {
		return domainerrors.Validationf("order has %d ids, collection has %d", len(ids), len(s.lists))
	}

	byID := make(map[string]domain.TopTenList, len(s.lists))
	for _, l := range s.lists {
		byID[l.ID] = l
	}

	reordered := make([]domain.TopTenList, 0, len(ids))
	for _, listID := range ids {
		l, ok := byID[listID]
		if !ok {
			return domainerrors.Validationf("order contains unknown or repeated id %q", listID)
		}
		delete(byID, listID)
		reordered = append(reordered, l)
	}

	s.lists = reordered
	s.persistLocked()
	return nil
}

func (s *ListService) indexLocked(listID string) int {
	return slices.IndexFunc(s.lists, func(l domain.TopTenList) bool { return l.ID == listID })
}

// persistLocked must run under the write lock so snapshots reach the
// persister in mutation order.
func (s *ListService) persistLocked() {
	enqueue(s.persist, s.logger, store.KeyLists, s.lists)
}

func checkDescription(d string) error {
	if n := utf8.RuneCountInString(d); n > domain.MaxDescriptionLength {
		return domainerrors.ValidationWithDetails(
			fmt.Sprintf("description is %d characters, limit is %d", n, domain.MaxDescriptionLength),
			map[string]string{"description": fmt.Sprintf("must not exceed %d characters", domain.MaxDescriptionLength)},
		)
	}
	return nil
}
