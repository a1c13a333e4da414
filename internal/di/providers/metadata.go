package providers

import (
	"github.com/samber/do/v2"

	"github.com/toptenapp/topten-server/internal/config"
	"github.com/toptenapp/topten-server/internal/logger"
	"github.com/toptenapp/topten-server/internal/metadata"
	"github.com/toptenapp/topten-server/internal/metadata/ipgeo"
	"github.com/toptenapp/topten-server/internal/metadata/itunes"
	"github.com/toptenapp/topten-server/internal/metadata/mealdb"
	"github.com/toptenapp/topten-server/internal/metadata/openlibrary"
	"github.com/toptenapp/topten-server/internal/metadata/photos"
	"github.com/toptenapp/topten-server/internal/metadata/places"
	"github.com/toptenapp/topten-server/internal/metadata/rawg"
	"github.com/toptenapp/topten-server/internal/metadata/sportsdb"
	"github.com/toptenapp/topten-server/internal/metadata/tmdb"
	"github.com/toptenapp/topten-server/internal/metadata/wikipedia"
	"github.com/toptenapp/topten-server/internal/metrics"
	"github.com/toptenapp/topten-server/internal/seed"
	"github.com/toptenapp/topten-server/internal/suggest"
)

// MetadataClients holds the outbound API clients. They share one rate-limited HTTP client.
type MetadataClients struct {
	Suggest   suggest.Clients
	Photos    *photos.Client
	Wikipedia *wikipedia.Client
	IPGeo     *ipgeo.Client
}

// ProvideMetadataClients provides the public API clients used for suggestions, images and location.
func ProvideMetadataClients(i do.Injector) (*MetadataClients, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	h := metadata.NewHTTP(log.Component("metadata"), cfg.Suggest.BackendTimeout)
	wiki := wikipedia.New(h)

	clients := &MetadataClients{
		Suggest: suggest.Clients{
			TMDB:        tmdb.New(h, cfg.Suggest.TMDBAPIKey),
			OpenLibrary: openlibrary.New(h),
			ITunes:      itunes.NewClient(h),
			SportsDB:    sportsdb.New(h),
			Meals:       mealdb.New(h, mealdb.Meals),
			Cocktails:   mealdb.New(h, mealdb.Cocktails),
			RAWG:        rawg.New(h, cfg.Suggest.RAWGAPIKey),
			Places:      places.New(h),
			Wikipedia:   wiki,
		},
		Photos:    photos.New(h, cfg.Suggest.PexelsAPIKey),
		Wikipedia: wiki,
		IPGeo:     ipgeo.New(h),
	}

	if cfg.Suggest.TMDBAPIKey == "" {
		log.Warn("TMDB_API_KEY not set, movie and TV suggestions use static lists")
	}
	if cfg.Suggest.RAWGAPIKey == "" {
		log.Warn("RAWG_API_KEY not set, game suggestions use static lists")
	}

	return clients, nil
}

// ProvideSuggestAggregator provides the suggestion aggregator, cached in badger.
func ProvideSuggestAggregator(i do.Injector) (*suggest.Aggregator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	sd := do.MustInvoke[*seed.Seed](i)
	clients := do.MustInvoke[*MetadataClients](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	routes := suggest.DefaultRoutes(clients.Suggest)
	agg := suggest.New(routes, storeHandle.Store, sd, log.Component("suggest"), m, suggest.Options{
		CacheTTL: cfg.Suggest.CacheTTL,
		Timeout:  cfg.Suggest.BackendTimeout,
	})

	log.Info("Suggestion aggregator initialized", "routed_categories", len(routes))

	return agg, nil
}
