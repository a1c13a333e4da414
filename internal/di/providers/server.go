package providers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/toptenapp/topten-server/internal/api"
	"github.com/toptenapp/topten-server/internal/config"
	"github.com/toptenapp/topten-server/internal/logger"
	"github.com/toptenapp/topten-server/internal/metrics"
	"github.com/toptenapp/topten-server/internal/service"
	"github.com/toptenapp/topten-server/internal/suggest"
)

// shutdownTimeout bounds each handle's graceful shutdown.
const shutdownTimeout = 30 * time.Second

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	persister := do.MustInvoke[*PersisterHandle](i)
	index := do.MustInvoke[*SearchIndexHandle](i)

	services := &api.Services{
		Lists:     do.MustInvoke[*service.ListService](i),
		Community: do.MustInvoke[*service.CommunityService](i),
		Featured:  do.MustInvoke[*service.FeaturedService](i),
		Settings:  do.MustInvoke[*service.SettingsService](i),
		Location:  do.MustInvoke[*service.LocationService](i),
		Images:    do.MustInvoke[*service.ImageService](i),
		Suggest:   do.MustInvoke[*suggest.Aggregator](i),
		Search:    index.Index,
		Store:     storeHandle.Store,
		Persister: persister.Persister,
	}

	handler := api.NewServer(services, m, log.Component("api"), api.Options{
		Version:           Version,
		CORSOrigins:       cfg.Server.CORSOrigins,
		TrustProxyHeaders: cfg.Server.TrustProxyHeaders,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
