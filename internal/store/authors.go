package store

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/kuwavkdb/am2vkdb/internal/domain"
	apperrors "github.com/kuwavkdb/am2vkdb/internal/errors"
	"github.com/kuwavkdb/am2vkdb/internal/events"
	"github.com/kuwavkdb/am2vkdb/internal/normalize"
)

// AuthorRating pairs a normalized author name with its stored rating.
type AuthorRating struct {
	Name   string        `json:"name"`
	Rating domain.Rating `json:"rating"`
}

// Author names are normalized before every key operation, so width variants
// of the same name always land on one record.

// GetAuthorRating retrieves the rating stored for an author name.
// An author with no stored rating returns RatingUnset.
func (s *Store) GetAuthorRating(ctx context.Context, name string) (domain.Rating, error) {
	key := normalize.Name(name)
	if key == "" {
		return domain.RatingUnset, apperrors.Validation("author name must not be empty")
	}
	if err := s.checkCtx(ctx); err != nil {
		return domain.RatingUnset, err
	}

	value, found, err := s.getString(keyAuthorRating(key))
	if err != nil {
		return domain.RatingUnset, apperrors.Wrap(err, apperrors.CodeStoreOperation, "get author rating")
	}
	if !found {
		return domain.RatingUnset, nil
	}

	rating, ok := domain.ParseRating(value)
	if !ok {
		s.logger.Warn("ignoring unknown author rating value",
			slog.String("author", key),
			slog.String("value", value))
		return domain.RatingUnset, nil
	}
	return rating, nil
}

// SetAuthorRating stores a rating for an author and broadcasts the change.
// Writing the rating an author already has is a no-op and emits nothing.
func (s *Store) SetAuthorRating(ctx context.Context, name string, rating domain.Rating) error {
	key := normalize.Name(name)
	if key == "" {
		return apperrors.Validation("author name must not be empty")
	}
	if !rating.IsSet() {
		return apperrors.Validation("rating must be good or bad, use ClearAuthorRating to unset")
	}
	if err := s.checkCtx(ctx); err != nil {
		return err
	}

	current, err := s.GetAuthorRating(ctx, key)
	if err != nil {
		return err
	}
	if current == rating {
		return nil
	}

	if err := s.setString(keyAuthorRating(key), string(rating)); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreOperation, "set author rating")
	}

	s.eventEmitter.Emit(events.NewAuthorRatingChangedEvent(key, rating))
	return nil
}

// ClearAuthorRating removes the stored rating for an author.
// Clearing an author with no rating is a no-op and emits nothing.
func (s *Store) ClearAuthorRating(ctx context.Context, name string) error {
	key := normalize.Name(name)
	if key == "" {
		return apperrors.Validation("author name must not be empty")
	}
	if err := s.checkCtx(ctx); err != nil {
		return err
	}

	current, err := s.GetAuthorRating(ctx, key)
	if err != nil {
		return err
	}
	if !current.IsSet() {
		return nil
	}

	if err := s.delete(keyAuthorRating(key)); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreOperation, "clear author rating")
	}

	s.eventEmitter.Emit(events.NewAuthorRatingChangedEvent(key, domain.RatingUnset))
	return nil
}

// ListAuthorRatings returns every stored author rating.
// Records with unparseable values are skipped.
func (s *Store) ListAuthorRatings(ctx context.Context) ([]AuthorRating, error) {
	if err := s.checkCtx(ctx); err != nil {
		return nil, err
	}

	var out []AuthorRating

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixAuthor)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			name := strings.TrimPrefix(string(item.Key()), prefixAuthor)

			err := item.Value(func(val []byte) error {
				rating, ok := domain.ParseRating(string(val))
				if !ok {
					s.logger.Warn("skipping unknown author rating value",
						slog.String("author", name),
						slog.String("value", string(val)))
					return nil
				}
				out = append(out, AuthorRating{Name: name, Rating: rating})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreOperation, "list author ratings")
	}
	return out, nil
}

// GetProductAuthor retrieves the cached author name resolved for a product.
func (s *Store) GetProductAuthor(ctx context.Context, productID string) (string, bool, error) {
	if err := validateProductID(productID); err != nil {
		return "", false, err
	}
	if err := s.checkCtx(ctx); err != nil {
		return "", false, err
	}

	name, found, err := s.getString(keyProductAuthor(productID))
	if err != nil {
		return "", false, apperrors.Wrap(err, apperrors.CodeStoreOperation, "get product author")
	}
	return name, found, nil
}

// SetProductAuthor caches the author name resolved for a product and
// broadcasts the resolution. The name is normalized before storage.
// Re-caching the same name is a no-op and emits nothing.
func (s *Store) SetProductAuthor(ctx context.Context, productID, name string) error {
	if err := validateProductID(productID); err != nil {
		return err
	}
	key := normalize.Name(name)
	if key == "" {
		return apperrors.Validation("author name must not be empty")
	}
	if err := s.checkCtx(ctx); err != nil {
		return err
	}

	current, found, err := s.GetProductAuthor(ctx, productID)
	if err != nil {
		return err
	}
	if found && current == key {
		return nil
	}

	if err := s.setString(keyProductAuthor(productID), key); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreOperation, "set product author")
	}

	s.eventEmitter.Emit(events.NewAuthorResolvedEvent(productID, key))
	return nil
}
