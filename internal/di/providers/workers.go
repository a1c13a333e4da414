package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/toptenapp/topten-server/internal/config"
	"github.com/toptenapp/topten-server/internal/logger"
	"github.com/toptenapp/topten-server/internal/seed"
	"github.com/toptenapp/topten-server/internal/service"
	"github.com/toptenapp/topten-server/internal/suggest"
)

// SeedWatcherHandle stops the seed override watcher on shutdown.
type SeedWatcherHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (h *SeedWatcherHandle) Shutdown() error {
	h.cancel()
	<-h.done
	return nil
}

// ProvideSeedWatcher reloads the seed override file on change and pushes the
// new catalog into every component that reads it. Without an override there
// is nothing to watch.
func ProvideSeedWatcher(i do.Injector) (*SeedWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	community := do.MustInvoke[*service.CommunityService](i)
	featured := do.MustInvoke[*service.FeaturedService](i)
	index := do.MustInvoke[*SearchIndexHandle](i)
	agg := do.MustInvoke[*suggest.Aggregator](i)

	ctx, cancel := context.WithCancel(context.Background())
	h := &SeedWatcherHandle{cancel: cancel, done: make(chan struct{})}

	if cfg.Data.SeedPath == "" {
		close(h.done)
		return h, nil
	}

	apply := func(sd *seed.Seed) {
		community.SetSeed(sd)
		featured.SetSeed(sd)
		agg.SetStatic(sd)
		if err := index.Rebuild(sd); err != nil {
			log.Error("Search index rebuild failed", "error", err)
		}
	}

	go func() {
		defer close(h.done)
		if err := seed.Watch(ctx, cfg.Data.SeedPath, log.Component("seed"), apply); err != nil {
			log.Error("Seed watcher error", "error", err)
		}
	}()

	log.Info("Watching seed file", "path", cfg.Data.SeedPath)

	return h, nil
}
