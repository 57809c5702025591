package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/kuwavkdb/am2vkdb/internal/config"
	"github.com/kuwavkdb/am2vkdb/internal/events"
	"github.com/kuwavkdb/am2vkdb/internal/legacy"
	"github.com/kuwavkdb/am2vkdb/internal/logger"
	"github.com/kuwavkdb/am2vkdb/internal/store"
)

// EventManagerHandle wraps the event manager with its context for lifecycle management.
type EventManagerHandle struct {
	*events.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *EventManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideEventManager provides the server-sent events manager.
func ProvideEventManager(i do.Injector) (*EventManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := events.NewManager(log.Logger)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("Event manager started")

	return &EventManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the rating database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	eventsHandle := do.MustInvoke[*EventManagerHandle](i)

	dbPath := filepath.Join(cfg.Data.Path, "db")
	db, err := store.New(dbPath, log.Logger, eventsHandle.Manager)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// LegacyListHandle wraps the legacy deleted-artists list with shutdown capability.
type LegacyListHandle struct {
	*legacy.List
}

// Shutdown implements do.Shutdownable.
func (h *LegacyListHandle) Shutdown() error {
	return h.Close()
}

// ProvideLegacyList provides the read-only legacy deleted-artists list.
func ProvideLegacyList(i do.Injector) (*LegacyListHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	list, err := legacy.Load(cfg.Legacy.DeletedArtistsPath, log.Logger)
	if err != nil {
		return nil, err
	}

	if cfg.Legacy.DeletedArtistsPath != "" {
		log.Info("Legacy deleted-artists list loaded",
			"path", cfg.Legacy.DeletedArtistsPath,
			"entries", list.Len(),
		)
	}

	return &LegacyListHandle{List: list}, nil
}
