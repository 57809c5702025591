// Package store persists ratings, author keys, and settings in Badger.
//
// The key space is flat and shared with older installations, so the layout
// is fixed: product ratings live under the raw product ID, author ratings
// under "author:<normalized name>", and the resolution cache under
// "asin_author:<product id>". Values are plain strings.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	apperrors "github.com/kuwavkdb/am2vkdb/internal/errors"
	"github.com/kuwavkdb/am2vkdb/internal/events"
)

// EventEmitter is the interface for emitting SSE events.
// Store uses this to broadcast changes without depending on SSE implementation details.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter is a no-op implementation of EventEmitter for testing.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// NewNoopEmitter creates a new no-op emitter for testing.
func NewNoopEmitter() EventEmitter {
	return NoopEmitter{}
}

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// SSE event emitter for broadcasting changes.
	eventEmitter EventEmitter
}

// New creates a new Store instance with the given database path and event emitter.
// The emitter is required and used to broadcast rating changes via SSE.
func New(path string, logger *slog.Logger, emitter EventEmitter) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:           db,
		logger:       logger,
		eventEmitter: emitter,
	}

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// available verifies the database can serve requests. Every read and write
// on an unavailable store fails identically and surfaces a user-visible
// notice, so a flapping backend never half-applies a toggle.
func (s *Store) available() error {
	if s.db.IsClosed() {
		s.eventEmitter.Emit(events.NewNoticeEvent("rating store is unavailable"))
		return apperrors.ErrStoreUnavailable
	}
	return nil
}

// validateProductID rejects IDs that would collide with reserved key
// namespaces. Product ratings are stored under the raw ID.
func validateProductID(id string) error {
	if id == "" {
		return apperrors.Validation("product id must not be empty")
	}
	if strings.HasPrefix(id, prefixAuthor) || strings.HasPrefix(id, prefixProductAuthor) {
		return apperrors.Validationf("product id %q uses a reserved prefix", id)
	}
	if id == keyFormatTemplate || id == keyDateLinkURL {
		return apperrors.Validationf("product id %q is a reserved key", id)
	}
	return nil
}

// Helper methods for raw string values.

// getString retrieves a plain string value by key.
// Returns ok=false when the key does not exist.
func (s *Store) getString(key []byte) (string, bool, error) {
	var value string
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if err != nil {
		return "", false, err
	}
	return value, found, nil
}

// setString stores a plain string value by key.
func (s *Store) setString(key []byte, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, []byte(value))
	})
}

// delete removes a key from the database. Deleting a missing key is not
// an error.
func (s *Store) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (s *Store) checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.available()
}
