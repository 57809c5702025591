// Package di provides dependency injection configuration for the am2vkdb server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/kuwavkdb/am2vkdb/internal/config"
	"github.com/kuwavkdb/am2vkdb/internal/di/providers"
	"github.com/kuwavkdb/am2vkdb/internal/logger"
	"github.com/kuwavkdb/am2vkdb/internal/service"
	"github.com/kuwavkdb/am2vkdb/internal/view"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideEventManager)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideLegacyList)

	// Surface and resolution layer
	do.Provide(injector, providers.ProvideSurface)
	do.Provide(injector, providers.ProvidePageClient)
	do.Provide(injector, providers.ProvideSyncService)
	do.Provide(injector, providers.ProvideResolver)

	// Business services
	do.Provide(injector, providers.ProvideRatingService)
	do.Provide(injector, providers.ProvideSettingsService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.EventManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.LegacyListHandle](injector)
	_ = do.MustInvoke[*view.MemorySurface](injector)
	_ = do.MustInvoke[*providers.PageClientHandle](injector)
	_ = do.MustInvoke[*service.SyncService](injector)
	_ = do.MustInvoke[*providers.ResolverHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.RatingService](injector)
	_ = do.MustInvoke[*service.SettingsService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
