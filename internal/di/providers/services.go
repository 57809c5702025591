package providers

import (
	"github.com/samber/do/v2"

	"github.com/kuwavkdb/am2vkdb/internal/config"
	"github.com/kuwavkdb/am2vkdb/internal/logger"
	"github.com/kuwavkdb/am2vkdb/internal/page"
	"github.com/kuwavkdb/am2vkdb/internal/service"
	"github.com/kuwavkdb/am2vkdb/internal/view"
)

// ProvideSurface provides the in-memory container registry.
func ProvideSurface(i do.Injector) (*view.MemorySurface, error) {
	return view.NewMemorySurface(), nil
}

// PageClientHandle wraps the detail page client with shutdown capability.
type PageClientHandle struct {
	*page.Client
}

// Shutdown implements do.Shutdownable.
func (h *PageClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvidePageClient provides the rate-limited detail page fetcher.
func ProvidePageClient(i do.Injector) (*PageClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return &PageClientHandle{Client: page.New(log.Logger, cfg.Resolver.FetchTimeout)}, nil
}

// ProvideSyncService provides the surface repaint service.
func ProvideSyncService(i do.Injector) (*service.SyncService, error) {
	surface := do.MustInvoke[*view.MemorySurface](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSyncService(surface, log.Logger), nil
}

// ResolverHandle wraps the resolver with shutdown capability so pending
// hover timers are canceled on exit.
type ResolverHandle struct {
	*service.ResolverService
}

// Shutdown implements do.Shutdownable.
func (h *ResolverHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideResolver provides the author resolution service.
func ProvideResolver(i do.Injector) (*ResolverHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	legacyHandle := do.MustInvoke[*LegacyListHandle](i)
	surface := do.MustInvoke[*view.MemorySurface](i)
	syncSvc := do.MustInvoke[*service.SyncService](i)
	pageHandle := do.MustInvoke[*PageClientHandle](i)

	resolver := service.NewResolverService(
		storeHandle.Store,
		legacyHandle.List,
		surface,
		syncSvc,
		pageHandle.Client,
		log.Logger,
		cfg.Resolver.Debounce,
		cfg.Resolver.FetchTimeout,
	)

	return &ResolverHandle{ResolverService: resolver}, nil
}

// ProvideRatingService provides the rating toggle service.
func ProvideRatingService(i do.Injector) (*service.RatingService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	legacyHandle := do.MustInvoke[*LegacyListHandle](i)
	surface := do.MustInvoke[*view.MemorySurface](i)
	syncSvc := do.MustInvoke[*service.SyncService](i)
	resolverHandle := do.MustInvoke[*ResolverHandle](i)

	return service.NewRatingService(
		storeHandle.Store,
		legacyHandle.List,
		surface,
		syncSvc,
		resolverHandle.ResolverService,
		log.Logger,
	), nil
}

// ProvideSettingsService provides the settings service.
func ProvideSettingsService(i do.Injector) (*service.SettingsService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	return service.NewSettingsService(storeHandle.Store, log.Logger), nil
}
