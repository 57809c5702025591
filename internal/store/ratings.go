package store

import (
	"context"
	"log/slog"

	"github.com/kuwavkdb/am2vkdb/internal/domain"
	apperrors "github.com/kuwavkdb/am2vkdb/internal/errors"
	"github.com/kuwavkdb/am2vkdb/internal/events"
)

// GetProductRating retrieves the rating stored for a product.
// A product with no stored rating returns RatingUnset.
func (s *Store) GetProductRating(ctx context.Context, productID string) (domain.Rating, error) {
	if err := validateProductID(productID); err != nil {
		return domain.RatingUnset, err
	}
	if err := s.checkCtx(ctx); err != nil {
		return domain.RatingUnset, err
	}

	value, found, err := s.getString(keyProductRating(productID))
	if err != nil {
		return domain.RatingUnset, apperrors.Wrap(err, apperrors.CodeStoreOperation, "get product rating")
	}
	if !found {
		return domain.RatingUnset, nil
	}

	rating, ok := domain.ParseRating(value)
	if !ok {
		// Unknown values are treated as unset rather than failing reads.
		s.logger.Warn("ignoring unknown product rating value",
			slog.String("product_id", productID),
			slog.String("value", value))
		return domain.RatingUnset, nil
	}
	return rating, nil
}

// SetProductRating stores a rating for a product and broadcasts the change.
// Writing the rating a product already has is a no-op and emits nothing.
func (s *Store) SetProductRating(ctx context.Context, productID string, rating domain.Rating) error {
	if err := validateProductID(productID); err != nil {
		return err
	}
	if !rating.IsSet() {
		return apperrors.Validation("rating must be good or bad, use ClearProductRating to unset")
	}
	if err := s.checkCtx(ctx); err != nil {
		return err
	}

	current, err := s.GetProductRating(ctx, productID)
	if err != nil {
		return err
	}
	if current == rating {
		return nil
	}

	if err := s.setString(keyProductRating(productID), string(rating)); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreOperation, "set product rating")
	}

	s.eventEmitter.Emit(events.NewProductRatingChangedEvent(productID, rating))
	return nil
}

// ClearProductRating removes the stored rating for a product.
// Clearing a product with no rating is a no-op and emits nothing.
func (s *Store) ClearProductRating(ctx context.Context, productID string) error {
	if err := validateProductID(productID); err != nil {
		return err
	}
	if err := s.checkCtx(ctx); err != nil {
		return err
	}

	current, err := s.GetProductRating(ctx, productID)
	if err != nil {
		return err
	}
	if !current.IsSet() {
		return nil
	}

	if err := s.delete(keyProductRating(productID)); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreOperation, "clear product rating")
	}

	s.eventEmitter.Emit(events.NewProductRatingChangedEvent(productID, domain.RatingUnset))
	return nil
}
