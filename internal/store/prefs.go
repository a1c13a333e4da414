package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/toptenapp/topten-server/internal/domain"
)

// GetNotificationPrefs returns stored preferences, or defaults if none were saved.
func (s *Store) GetNotificationPrefs(ctx context.Context) (domain.NotificationPrefs, error) {
	if err := ctx.Err(); err != nil {
		return domain.NotificationPrefs{}, err
	}

	prefs := domain.DefaultNotificationPrefs()
	if err := s.get([]byte(KeyNotificationPrefs), &prefs); err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.DefaultNotificationPrefs(), nil
		}
		return domain.NotificationPrefs{}, fmt.Errorf("get notification prefs: %w", err)
	}
	return prefs, nil
}

// SaveNotificationPrefs stores preferences.
func (s *Store) SaveNotificationPrefs(ctx context.Context, prefs domain.NotificationPrefs) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.set([]byte(KeyNotificationPrefs), prefs)
}

// GetDataContribution returns the stored opt-in. Missing means opted out.
func (s *Store) GetDataContribution(ctx context.Context) (domain.DataContribution, error) {
	if err := ctx.Err(); err != nil {
		return domain.DataContribution{}, err
	}

	var dc domain.DataContribution
	if err := s.get([]byte(KeyDataContribution), &dc); err != nil && !errors.Is(err, ErrNotFound) {
		return domain.DataContribution{}, fmt.Errorf("get data contribution: %w", err)
	}
	return dc, nil
}

// SaveDataContribution stores the opt-in.
func (s *Store) SaveDataContribution(ctx context.Context, dc domain.DataContribution) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.set([]byte(KeyDataContribution), dc)
}

// GetViewedFeatured returns ids of featured lists the user has opened.
func (s *Store) GetViewedFeatured(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ids []string
	if err := s.get([]byte(KeyFeaturedViewed), &ids); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get viewed featured: %w", err)
	}
	return ids, nil
}

// GetDetectedLocation returns the last detected location, or nil if none.
func (s *Store) GetDetectedLocation(ctx context.Context) (*domain.DetectedLocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var loc domain.DetectedLocation
	if err := s.get([]byte(KeyDetectedLocation), &loc); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get detected location: %w", err)
	}
	return &loc, nil
}

// SaveDetectedLocation stores the detected location.
func (s *Store) SaveDetectedLocation(ctx context.Context, loc domain.DetectedLocation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.set([]byte(KeyDetectedLocation), loc)
}
