package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuwavkdb/am2vkdb/internal/domain"
	apperrors "github.com/kuwavkdb/am2vkdb/internal/errors"
)

func TestToggleProduct_PressAgainClears(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	next, err := env.ratings.ToggleProduct(ctx, "B000X1", domain.RatingBad)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingBad, next)

	next, err = env.ratings.ToggleProduct(ctx, "B000X1", domain.RatingBad)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingUnset, next)

	rating, err := env.store.GetProductRating(ctx, "B000X1")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingUnset, rating)
}

func TestToggleProduct_OppositeReplaces(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	_, err := env.ratings.ToggleProduct(ctx, "B000X1", domain.RatingBad)
	require.NoError(t, err)

	next, err := env.ratings.ToggleProduct(ctx, "B000X1", domain.RatingGood)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingGood, next)
}

func TestToggleProduct_RejectsUnset(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.ratings.ToggleProduct(context.Background(), "B000X1", domain.RatingUnset)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestToggleProduct_GoodCascadesToAuthor(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	c := env.addContainer(t, "B000X1", "Jane Smith", "")

	next, err := env.ratings.ToggleProduct(ctx, "B000X1", domain.RatingGood)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingGood, next)

	// Author picked up from the rendered label, no page fetch.
	assert.Zero(t, env.fetcher.callCount())

	rating, err := env.store.GetAuthorRating(ctx, "Jane Smith")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingGood, rating)

	assert.Equal(t, domain.RatingGood, c.ProductMarker())
	assert.Equal(t, domain.RatingGood, c.AuthorMarker())
	assert.Equal(t, domain.EmphasisGoodProduct, c.Emphasis())
}

func TestToggleProduct_CascadeOverridesBadAuthor(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	env.addContainer(t, "B000X1", "Jane Smith", "")
	require.NoError(t, env.store.SetAuthorRating(ctx, "Jane Smith", domain.RatingBad))

	_, err := env.ratings.ToggleProduct(ctx, "B000X1", domain.RatingGood)
	require.NoError(t, err)

	rating, err := env.store.GetAuthorRating(ctx, "Jane Smith")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingGood, rating)
}

func TestToggleProduct_CascadeSurvivesMissingAuthor(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	// No containers, no cached author, no detail URL. The cascade has
	// nothing to work with but the product rating still lands.
	next, err := env.ratings.ToggleProduct(ctx, "B000X1", domain.RatingGood)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingGood, next)

	rating, err := env.store.GetProductRating(ctx, "B000X1")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingGood, rating)
}

func TestToggleAuthor_LegacyListShowsThroughAfterClear(t *testing.T) {
	env := newTestEnv(t, "Jane Smith,John Doe")
	ctx := context.Background()

	// First press stores bad.
	effective, err := env.ratings.ToggleAuthor(ctx, "Jane Smith", domain.RatingBad)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingBad, effective)

	// Second press clears the stored rating, but the legacy export still
	// marks her bad, so the effective rating does not round-trip to unset.
	effective, err = env.ratings.ToggleAuthor(ctx, "Jane Smith", domain.RatingBad)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingBad, effective)

	stored, err := env.store.GetAuthorRating(ctx, "Jane Smith")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingUnset, stored)
}

func TestToggleAuthor_RoundTripWithoutLegacy(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	effective, err := env.ratings.ToggleAuthor(ctx, "John Doe", domain.RatingGood)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingGood, effective)

	effective, err = env.ratings.ToggleAuthor(ctx, "John Doe", domain.RatingGood)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingUnset, effective)
}

func TestToggleAuthor_WidthVariantsShareOneRating(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	_, err := env.ratings.ToggleAuthor(ctx, "Ｊａｎｅ　Ｓｍｉｔｈ", domain.RatingBad)
	require.NoError(t, err)

	// The plain spelling presses the same record, so this clears it.
	effective, err := env.ratings.ToggleAuthor(ctx, "Jane Smith", domain.RatingBad)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingUnset, effective)
}

func TestToggleAuthor_RepaintsMatchingContainers(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	c1 := env.addContainer(t, "B000X1", "Jane Smith", "")
	c2 := env.addContainer(t, "B000Y2", "Ｊａｎｅ　Ｓｍｉｔｈ", "")
	other := env.addContainer(t, "B000Z3", "John Doe", "")

	_, err := env.ratings.ToggleAuthor(ctx, "Jane Smith", domain.RatingBad)
	require.NoError(t, err)

	assert.Equal(t, domain.RatingBad, c1.AuthorMarker())
	assert.Equal(t, domain.RatingBad, c2.AuthorMarker(), "width variant label matches")
	assert.Equal(t, domain.RatingUnset, other.AuthorMarker())

	// An unrated product by a bad author renders with bad emphasis.
	assert.Equal(t, domain.EmphasisBadProduct, c1.Emphasis())
}

func TestEffectiveAuthorRating(t *testing.T) {
	env := newTestEnv(t, "John Doe")
	ctx := context.Background()

	// Legacy only.
	rating, err := env.ratings.EffectiveAuthorRating(ctx, "John Doe")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingBad, rating)

	// Stored rating wins over legacy.
	require.NoError(t, env.store.SetAuthorRating(ctx, "John Doe", domain.RatingGood))
	rating, err = env.ratings.EffectiveAuthorRating(ctx, "John Doe")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingGood, rating)

	// Neither.
	rating, err = env.ratings.EffectiveAuthorRating(ctx, "Jane Smith")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingUnset, rating)
}

func TestListAuthors_Sorted(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	require.NoError(t, env.ratings.SetAuthorRating(ctx, "John Doe", domain.RatingBad))
	require.NoError(t, env.ratings.SetAuthorRating(ctx, "Alice Jones", domain.RatingGood))

	authors, err := env.ratings.ListAuthors(ctx)
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "Alice Jones", authors[0].Name)
	assert.Equal(t, "John Doe", authors[1].Name)
}

func TestBulkSetAuthorRatings(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	stored, err := env.ratings.BulkSetAuthorRatings(ctx,
		[]string{"John Doe", "  ", "Ｊｏｈｎ　Ｄｏｅ", "Alice Jones"},
		domain.RatingBad)
	require.NoError(t, err)

	// The blank entry and the width-variant duplicate are skipped.
	assert.Equal(t, []string{"John Doe", "Alice Jones"}, stored)

	authors, err := env.ratings.ListAuthors(ctx)
	require.NoError(t, err)
	require.Len(t, authors, 2)
	for _, a := range authors {
		assert.Equal(t, domain.RatingBad, a.Rating)
	}
}

func TestBulkSetAuthorRatings_RejectsUnset(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.ratings.BulkSetAuthorRatings(context.Background(), []string{"John Doe"}, domain.RatingUnset)
	require.Error(t, err)
}

func TestRemoveAuthorRating_FallsBackToLegacy(t *testing.T) {
	env := newTestEnv(t, "Jane Smith")
	ctx := context.Background()

	c := env.addContainer(t, "B000X1", "Jane Smith", "")

	require.NoError(t, env.ratings.SetAuthorRating(ctx, "Jane Smith", domain.RatingGood))
	assert.Equal(t, domain.RatingGood, c.AuthorMarker())

	require.NoError(t, env.ratings.RemoveAuthorRating(ctx, "Jane Smith"))

	// Stored rating gone, surface shows the legacy fallback.
	assert.Equal(t, domain.RatingBad, c.AuthorMarker())
}

func TestInfoVisible(t *testing.T) {
	env := newTestEnv(t, "John Doe")
	ctx := context.Background()

	visible, err := env.ratings.InfoVisible(ctx, "B000X1", "Jane Smith")
	require.NoError(t, err)
	assert.True(t, visible)

	// Bad product suppresses info.
	require.NoError(t, env.store.SetProductRating(ctx, "B000X1", domain.RatingBad))
	visible, err = env.ratings.InfoVisible(ctx, "B000X1", "Jane Smith")
	require.NoError(t, err)
	assert.False(t, visible)

	// Legacy-bad author suppresses info too.
	visible, err = env.ratings.InfoVisible(ctx, "B000Y2", "John Doe")
	require.NoError(t, err)
	assert.False(t, visible)

	// Good ratings do not suppress.
	require.NoError(t, env.store.SetProductRating(ctx, "B000Z3", domain.RatingGood))
	visible, err = env.ratings.InfoVisible(ctx, "B000Z3", "")
	require.NoError(t, err)
	assert.True(t, visible)
}

func TestInitializeContainer_PaintsStoredState(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	require.NoError(t, env.store.SetProductRating(ctx, "B000X1", domain.RatingGood))
	require.NoError(t, env.store.SetAuthorRating(ctx, "Jane Smith", domain.RatingBad))

	c := env.addContainer(t, "B000X1", "Jane Smith", "")
	require.NoError(t, env.ratings.InitializeContainer(ctx, c))

	assert.Equal(t, domain.RatingGood, c.ProductMarker())
	assert.Equal(t, domain.RatingBad, c.AuthorMarker())
	assert.Equal(t, domain.EmphasisGoodProduct, c.Emphasis(), "good product outranks bad author")
}

func TestInitializeContainer_RestoresPersistedAuthor(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	// A previous session resolved and cached this product's author.
	require.NoError(t, env.store.SetProductAuthor(ctx, "B000X1", "Jane Smith"))
	require.NoError(t, env.store.SetAuthorRating(ctx, "Jane Smith", domain.RatingBad))

	c := env.addContainer(t, "B000X1", "", "https://shop.example/dp/B000X1")
	require.NoError(t, env.ratings.InitializeContainer(ctx, c))

	label, ok := c.AuthorLabel()
	require.True(t, ok)
	assert.Equal(t, "Jane Smith", label)
	assert.Equal(t, domain.RatingBad, c.AuthorMarker())

	// The restored author is primed, so hovering never fetches.
	name, cached := env.resolver.Cached("B000X1")
	require.True(t, cached)
	assert.Equal(t, "Jane Smith", name)
}
