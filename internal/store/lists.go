package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/toptenapp/topten-server/internal/domain"
)

// GetLists returns the persisted list collection in display order.
// A store that has never saved lists returns nil with no error.
func (s *Store) GetLists(ctx context.Context) ([]domain.TopTenList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var lists []domain.TopTenList
	if err := s.get([]byte(KeyLists), &lists); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lists: %w", err)
	}
	return lists, nil
}

// SaveLists replaces the list collection.
func (s *Store) SaveLists(ctx context.Context, lists []domain.TopTenList) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if lists == nil {
		lists = []domain.TopTenList{}
	}
	if err := s.set([]byte(KeyLists), lists); err != nil {
		return fmt.Errorf("save lists: %w", err)
	}
	return nil
}
