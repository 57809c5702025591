package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/kuwavkdb/am2vkdb/internal/api"
	"github.com/kuwavkdb/am2vkdb/internal/config"
	"github.com/kuwavkdb/am2vkdb/internal/events"
	"github.com/kuwavkdb/am2vkdb/internal/logger"
	"github.com/kuwavkdb/am2vkdb/internal/service"
	"github.com/kuwavkdb/am2vkdb/internal/view"
)

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

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	eventsHandle := do.MustInvoke[*EventManagerHandle](i)
	surface := do.MustInvoke[*view.MemorySurface](i)
	resolverHandle := do.MustInvoke[*ResolverHandle](i)
	ratingService := do.MustInvoke[*service.RatingService](i)
	settingsService := do.MustInvoke[*service.SettingsService](i)

	// Every container a client registers is painted from stored state
	// before the registration response is written.
	surface.Subscribe(func(c view.Container) {
		if err := ratingService.InitializeContainer(context.Background(), c); err != nil {
			log.Warn("failed to initialize container",
				"container_id", c.ID(),
				"product_id", c.ProductID(),
				"error", err,
			)
		}
	})

	eventsHandler := events.NewHandler(eventsHandle.Manager, log.Logger)

	services := &api.Services{
		Rating:   ratingService,
		Resolver: resolverHandle.ResolverService,
		Settings: settingsService,
	}

	handler := api.NewServer(storeHandle.Store, services, surface, eventsHandler, log.Logger)

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

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
