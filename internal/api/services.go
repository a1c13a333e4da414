package api

import (
	"github.com/toptenapp/topten-server/internal/search"
	"github.com/toptenapp/topten-server/internal/service"
	"github.com/toptenapp/topten-server/internal/store"
	"github.com/toptenapp/topten-server/internal/suggest"
)

// Services groups everything the handlers call.
// Nil members are tolerated by health checks so tests can wire a subset.
type Services struct {
	Lists     *service.ListService
	Community *service.CommunityService
	Featured  *service.FeaturedService
	Settings  *service.SettingsService
	Location  *service.LocationService
	Images    *service.ImageService
	Suggest   *suggest.Aggregator
	Search    *search.Index

	Store     *store.Store
	Persister *store.Persister
}
