// Package di provides dependency injection configuration for the TopTen server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/toptenapp/topten-server/internal/config"
	"github.com/toptenapp/topten-server/internal/di/providers"
	"github.com/toptenapp/topten-server/internal/logger"
	"github.com/toptenapp/topten-server/internal/metrics"
	"github.com/toptenapp/topten-server/internal/seed"
	"github.com/toptenapp/topten-server/internal/service"
	"github.com/toptenapp/topten-server/internal/suggest"
)

// NewContainer creates and configures the DI container with all providers.
// args are the command-line arguments without the program name.
func NewContainer(args []string) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig(args))
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideMetrics)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvidePersister)
	do.Provide(injector, providers.ProvideSeed)

	// Search and outbound clients
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideMetadataClients)
	do.Provide(injector, providers.ProvideSuggestAggregator)

	// Business services
	do.Provide(injector, providers.ProvideListService)
	do.Provide(injector, providers.ProvideCommunityService)
	do.Provide(injector, providers.ProvideFeaturedService)
	do.Provide(injector, providers.ProvideSettingsService)
	do.Provide(injector, providers.ProvideLocationService)
	do.Provide(injector, providers.ProvideImageService)

	// Workers
	do.Provide(injector, providers.ProvideSeedWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the server.
// Services load their persisted state here, so a corrupt store fails startup.
func Bootstrap(injector *do.RootScope) error {
	steps := []func() error{
		invoke[*config.Config](injector),
		invoke[*logger.Logger](injector),
		invoke[*metrics.Metrics](injector),
		invoke[*providers.StoreHandle](injector),
		invoke[*providers.PersisterHandle](injector),
		invoke[*seed.Seed](injector),
		invoke[*providers.SearchIndexHandle](injector),
		invoke[*providers.MetadataClients](injector),
		invoke[*suggest.Aggregator](injector),

		// Business services
		invoke[*service.ListService](injector),
		invoke[*service.CommunityService](injector),
		invoke[*service.FeaturedService](injector),
		invoke[*service.SettingsService](injector),
		invoke[*service.LocationService](injector),
		invoke[*service.ImageService](injector),

		// Workers
		invoke[*providers.SeedWatcherHandle](injector),

		// Server
		invoke[*providers.HTTPServerHandle](injector),
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func invoke[T any](injector do.Injector) func() error {
	return func() error {
		_, err := do.Invoke[T](injector)
		return err
	}
}
