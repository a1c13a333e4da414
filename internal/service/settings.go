package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/toptenapp/topten-server/internal/domain"
	"github.com/toptenapp/topten-server/internal/store"
)

// SettingsService manages notification preferences and the data-contribution opt-in.
type SettingsService struct {
	store   *store.Store
	persist Persister
	logger  *slog.Logger
	now     func() time.Time

	mu           sync.RWMutex
	prefs        domain.NotificationPrefs
	contribution domain.DataContribution
}

// NewSettingsService creates a settings service holding defaults until Load.
func NewSettingsService(st *store.Store, p Persister, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		store:   st,
		persist: p,
		logger:  orDiscard(logger),
		now:     utcNow,
		prefs:   domain.DefaultNotificationPrefs(),
	}
}

// Load reads persisted settings.
func (s *SettingsService) Load(ctx context.Context) error {
	prefs, err := s.store.GetNotificationPrefs(ctx)
	if err != nil {
		return fmt.Errorf("load notification prefs: %w", err)
	}
	dc, err := s.store.GetDataContribution(ctx)
	if err != nil {
		return fmt.Errorf("load data contribution: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = prefs
	s.contribution = dc
	return nil
}

// NotificationPrefs returns the current toggles.
func (s *SettingsService) NotificationPrefs() domain.NotificationPrefs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// UpdateNotificationPrefs replaces all toggles.
func (s *SettingsService) UpdateNotificationPrefs(prefs domain.NotificationPrefs) domain.NotificationPrefs {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs = prefs
	enqueue(s.persist, s.logger, store.KeyNotificationPrefs, s.prefs)
	return s.prefs
}

// DataContribution returns the opt-in state.
func (s *SettingsService) DataContribution() domain.DataContribution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contribution
}

// SetDataContribution records the opt-in choice. UpdatedAt only moves when
// the choice changes.
func (s *SettingsService) SetDataContribution(optedIn bool) domain.DataContribution {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.contribution.OptedIn == optedIn && !s.contribution.UpdatedAt.IsZero() {
		return s.contribution
	}
	s.contribution = domain.DataContribution{OptedIn: optedIn, UpdatedAt: s.now()}
	enqueue(s.persist, s.logger, store.KeyDataContribution, s.contribution)

	s.logger.Info("data contribution changed", "opted_in", optedIn)
	return s.contribution
}
