package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/toptenapp/topten-server/internal/config"
	"github.com/toptenapp/topten-server/internal/logger"
	"github.com/toptenapp/topten-server/internal/seed"
	"github.com/toptenapp/topten-server/internal/service"
)

// ProvideListService provides the user's lists, loaded from the store.
func ProvideListService(i do.Injector) (*service.ListService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	persister := do.MustInvoke[*PersisterHandle](i)
	sd := do.MustInvoke[*seed.Seed](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewListService(storeHandle.Store, persister.Persister, sd, log.Component("lists"))
	if err := svc.Load(context.Background()); err != nil {
		return nil, err
	}
	return svc, nil
}

// ProvideCommunityService provides community rankings, migrating legacy records on load.
func ProvideCommunityService(i do.Injector) (*service.CommunityService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	persister := do.MustInvoke[*PersisterHandle](i)
	sd := do.MustInvoke[*seed.Seed](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewCommunityService(storeHandle.Store, persister.Persister, sd, log.Component("community"))
	if err := svc.Load(context.Background()); err != nil {
		return nil, err
	}
	return svc, nil
}

// ProvideFeaturedService provides the curated lists and their viewed flags.
func ProvideFeaturedService(i do.Injector) (*service.FeaturedService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	persister := do.MustInvoke[*PersisterHandle](i)
	sd := do.MustInvoke[*seed.Seed](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewFeaturedService(storeHandle.Store, persister.Persister, sd, log.Component("featured"))
	if err := svc.Load(context.Background()); err != nil {
		return nil, err
	}
	return svc, nil
}

// ProvideSettingsService provides notification and data-contribution settings.
func ProvideSettingsService(i do.Injector) (*service.SettingsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	persister := do.MustInvoke[*PersisterHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewSettingsService(storeHandle.Store, persister.Persister, log.Component("settings"))
	if err := svc.Load(context.Background()); err != nil {
		return nil, err
	}
	return svc, nil
}

// ProvideLocationService provides IP location detection.
func ProvideLocationService(i do.Injector) (*service.LocationService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	persister := do.MustInvoke[*PersisterHandle](i)
	clients := do.MustInvoke[*MetadataClients](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewLocationService(storeHandle.Store, persister.Persister, clients.IPGeo, log.Component("location"), service.LocationOptions{
		Enabled:   cfg.Location.Enabled,
		Freshness: cfg.Location.Freshness,
	})
	if err := svc.Load(context.Background()); err != nil {
		return nil, err
	}

	if !cfg.Location.Enabled {
		log.Info("Location detection disabled by configuration")
	}
	return svc, nil
}

// ProvideImageService provides cover image lookup backed by the badger image cache.
func ProvideImageService(i do.Injector) (*service.ImageService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	clients := do.MustInvoke[*MetadataClients](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewImageService(storeHandle.Store, clients.Photos, clients.Wikipedia, log.Component("images"), service.ImageOptions{}), nil
}
