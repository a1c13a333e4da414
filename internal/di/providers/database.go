package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/toptenapp/topten-server/internal/config"
	"github.com/toptenapp/topten-server/internal/logger"
	"github.com/toptenapp/topten-server/internal/metrics"
	"github.com/toptenapp/topten-server/internal/seed"
	"github.com/toptenapp/topten-server/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the badger store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "db")
	db, err := store.New(dbPath, log.Component("store"))
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// PersisterHandle wraps the background persister. Shutdown drains pending
// snapshots before the store closes.
type PersisterHandle struct {
	*store.Persister
	log *logger.Logger
}

// Shutdown implements do.Shutdownable.
func (h *PersisterHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := h.Flush(ctx); err != nil {
		st := h.Status()
		h.log.WithError(err).Error("Pending writes lost on shutdown", "pending", st.Pending)
	}
	return h.Close()
}

// ProvidePersister provides the detached snapshot writer.
func ProvidePersister(i do.Injector) (*PersisterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	p := store.NewPersister(storeHandle.Store, log.Component("persister"), m, store.PersisterOptions{
		MaxRetries: cfg.Persist.MaxRetries,
		RetryDelay: cfg.Persist.RetryDelay,
	})

	return &PersisterHandle{Persister: p, log: log}, nil
}

// ProvideSeed loads the seed catalog, preferring the override file when one is configured.
func ProvideSeed(i do.Injector) (*seed.Seed, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	var (
		sd  *seed.Seed
		err error
	)
	if cfg.Data.SeedPath != "" {
		sd, err = seed.LoadFile(cfg.Data.SeedPath)
	} else {
		sd, err = seed.Load()
	}
	if err != nil {
		return nil, err
	}

	log.Info("Seed data loaded",
		"starter_lists", len(sd.Lists),
		"community_lists", len(sd.Community),
		"featured_lists", len(sd.Featured),
	)

	return sd, nil
}
