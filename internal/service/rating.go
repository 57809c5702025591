// Package service implements the rating, resolution, sync, and settings
// operations behind the API.
package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/kuwavkdb/am2vkdb/internal/domain"
	apperrors "github.com/kuwavkdb/am2vkdb/internal/errors"
	"github.com/kuwavkdb/am2vkdb/internal/legacy"
	"github.com/kuwavkdb/am2vkdb/internal/normalize"
	"github.com/kuwavkdb/am2vkdb/internal/store"
	"github.com/kuwavkdb/am2vkdb/internal/view"
)

// RatingService implements the two-tier rating model. Products and authors
// each hold at most one rating; pressing the rating an entity already has
// clears it, pressing the other replaces it.
type RatingService struct {
	store    *store.Store
	legacy   *legacy.List
	surface  view.Surface
	sync     *SyncService
	resolver *ResolverService
	logger   *slog.Logger
	locks    *keyedMutex
}

// NewRatingService creates a RatingService.
func NewRatingService(
	st *store.Store,
	legacyList *legacy.List,
	surface view.Surface,
	syncSvc *SyncService,
	resolver *ResolverService,
	logger *slog.Logger,
) *RatingService {
	return &RatingService{
		store:    st,
		legacy:   legacyList,
		surface:  surface,
		sync:     syncSvc,
		resolver: resolver,
		logger:   logger,
		locks:    newKeyedMutex(),
	}
}

// GetProductRating returns the stored rating for a product.
func (s *RatingService) GetProductRating(ctx context.Context, productID string) (domain.Rating, error) {
	return s.store.GetProductRating(ctx, productID)
}

// ToggleProduct applies a rating press to a product and returns the rating
// it holds afterwards. Rating a product good also rates its author good,
// resolving the author first if necessary.
func (s *RatingService) ToggleProduct(ctx context.Context, productID string, target domain.Rating) (domain.Rating, error) {
	if !target.IsSet() {
		return domain.RatingUnset, apperrors.Validation("rating must be good or bad")
	}

	unlock := s.locks.Lock("product:" + productID)
	defer unlock()

	current, err := s.store.GetProductRating(ctx, productID)
	if err != nil {
		return domain.RatingUnset, err
	}

	var next domain.Rating
	if current == target {
		if err := s.store.ClearProductRating(ctx, productID); err != nil {
			return domain.RatingUnset, err
		}
		next = domain.RatingUnset
	} else {
		if err := s.store.SetProductRating(ctx, productID, target); err != nil {
			return domain.RatingUnset, err
		}
		next = target
	}

	s.sync.ApplyProductRating(productID, next)

	s.logger.Info("product rating toggled",
		slog.String("product_id", productID),
		slog.String("rating", string(next)))

	// A good product reflects well on its author. Failure to cascade never
	// rolls back the product rating.
	if next == domain.RatingGood {
		s.cascadeAuthorGood(ctx, productID)
	}

	return next, nil
}

// cascadeAuthorGood rates a good product's author good. Authors already
// rated good are left alone; an unresolvable author skips the cascade.
func (s *RatingService) cascadeAuthorGood(ctx context.Context, productID string) {
	name, err := s.resolver.ResolveForProduct(ctx, productID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNoInformation) {
			s.logger.Debug("no author to cascade to",
				slog.String("product_id", productID))
		} else {
			s.logger.Warn("author cascade skipped",
				slog.String("product_id", productID),
				slog.String("error", err.Error()))
		}
		return
	}

	unlock := s.locks.Lock("author:" + name)
	defer unlock()

	current, err := s.store.GetAuthorRating(ctx, name)
	if err != nil {
		s.logger.Warn("author cascade skipped",
			slog.String("author", name),
			slog.String("error", err.Error()))
		return
	}
	if current == domain.RatingGood {
		return
	}

	if err := s.store.SetAuthorRating(ctx, name, domain.RatingGood); err != nil {
		s.logger.Warn("author cascade failed",
			slog.String("author", name),
			slog.String("error", err.Error()))
		return
	}

	s.sync.ApplyAuthorRating(name, domain.RatingGood)

	s.logger.Info("author rated good via product cascade",
		slog.String("product_id", productID),
		slog.String("author", name))
}

// ToggleAuthor applies a rating press to an author and returns the
// effective rating afterwards. The toggle works against the stored rating;
// clearing it lets the legacy bad list show through again, so a legacy-bad
// author pressed bad twice ends up bad, not unset.
func (s *RatingService) ToggleAuthor(ctx context.Context, name string, target domain.Rating) (domain.Rating, error) {
	key := normalize.Name(name)
	if key == "" {
		return domain.RatingUnset, apperrors.Validation("author name must not be empty")
	}
	if !target.IsSet() {
		return domain.RatingUnset, apperrors.Validation("rating must be good or bad")
	}

	unlock := s.locks.Lock("author:" + key)
	defer unlock()

	stored, err := s.store.GetAuthorRating(ctx, key)
	if err != nil {
		return domain.RatingUnset, err
	}

	var effective domain.Rating
	if stored == target {
		if err := s.store.ClearAuthorRating(ctx, key); err != nil {
			return domain.RatingUnset, err
		}
		effective = s.legacy.Rating(key)
	} else {
		if err := s.store.SetAuthorRating(ctx, key, target); err != nil {
			return domain.RatingUnset, err
		}
		effective = target
	}

	s.sync.ApplyAuthorRating(key, effective)

	s.logger.Info("author rating toggled",
		slog.String("author", key),
		slog.String("rating", string(effective)))
	return effective, nil
}

// EffectiveAuthorRating returns the stored rating for an author, falling
// back to the legacy bad list when nothing is stored.
func (s *RatingService) EffectiveAuthorRating(ctx context.Context, name string) (domain.Rating, error) {
	rating, err := s.store.GetAuthorRating(ctx, name)
	if err != nil {
		return domain.RatingUnset, err
	}
	if rating.IsSet() {
		return rating, nil
	}
	return s.legacy.Rating(name), nil
}

// ListAuthors returns every stored author rating sorted by name.
// Legacy-only authors are not listed; they live in the external file.
func (s *RatingService) ListAuthors(ctx context.Context) ([]store.AuthorRating, error) {
	authors, err := s.store.ListAuthorRatings(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(authors, func(a, b store.AuthorRating) int {
		return strings.Compare(a.Name, b.Name)
	})
	return authors, nil
}

// SetAuthorRating stores an author rating directly, for the management
// endpoints. The surface is repainted like any other change.
func (s *RatingService) SetAuthorRating(ctx context.Context, name string, rating domain.Rating) error {
	key := normalize.Name(name)
	if key == "" {
		return apperrors.Validation("author name must not be empty")
	}

	unlock := s.locks.Lock("author:" + key)
	defer unlock()

	if err := s.store.SetAuthorRating(ctx, key, rating); err != nil {
		return err
	}
	s.sync.ApplyAuthorRating(key, rating)
	return nil
}

// BulkSetAuthorRatings stores one rating for every name in the list.
// Blank entries and width-variant duplicates are skipped. Returns the
// normalized names that were stored, in input order.
func (s *RatingService) BulkSetAuthorRatings(ctx context.Context, names []string, rating domain.Rating) ([]string, error) {
	if !rating.IsSet() {
		return nil, apperrors.Validation("rating must be good or bad")
	}

	seen := make(map[string]struct{}, len(names))
	stored := make([]string, 0, len(names))
	for _, name := range names {
		key := normalize.Name(name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if err := s.SetAuthorRating(ctx, key, rating); err != nil {
			return stored, err
		}
		stored = append(stored, key)
	}
	return stored, nil
}

// RemoveAuthorRating clears a stored author rating. The author's effective
// rating falls back to the legacy list.
func (s *RatingService) RemoveAuthorRating(ctx context.Context, name string) error {
	key := normalize.Name(name)
	if key == "" {
		return apperrors.Validation("author name must not be empty")
	}

	unlock := s.locks.Lock("author:" + key)
	defer unlock()

	if err := s.store.ClearAuthorRating(ctx, key); err != nil {
		return err
	}
	s.sync.ApplyAuthorRating(key, s.legacy.Rating(key))
	return nil
}

// InfoVisible reports whether product info may be surfaced for copying.
// Bad-rated products and products by bad-rated authors are suppressed.
func (s *RatingService) InfoVisible(ctx context.Context, productID, author string) (bool, error) {
	product, err := s.store.GetProductRating(ctx, productID)
	if err != nil {
		return false, err
	}
	if product == domain.RatingBad {
		return false, nil
	}

	if normalize.Name(author) != "" {
		rating, err := s.EffectiveAuthorRating(ctx, author)
		if err != nil {
			return false, err
		}
		if rating == domain.RatingBad {
			return false, nil
		}
	}
	return true, nil
}

// InitializeContainer paints a newly rendered container from stored state:
// the product marker, the author label and marker when the author is
// already known, and the derived emphasis.
func (s *RatingService) InitializeContainer(ctx context.Context, c view.Container) error {
	productID := c.ProductID()

	product, err := s.store.GetProductRating(ctx, productID)
	if err != nil {
		return err
	}
	c.SetProductMarker(product)

	label, hasLabel := c.AuthorLabel()
	if !hasLabel {
		// No author on the card; an earlier session may have resolved one.
		if name, found, err := s.store.GetProductAuthor(ctx, productID); err != nil {
			return err
		} else if found {
			c.InsertAuthorLabel(name)
			label, hasLabel = c.AuthorLabel()
		}
	}

	if hasLabel {
		s.resolver.Prime(ctx, productID, label)

		rating, err := s.EffectiveAuthorRating(ctx, label)
		if err != nil {
			return err
		}
		c.SetAuthorMarker(rating)
	}

	s.sync.RecomputeEmphasis(c)
	return nil
}
