package store

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuwavkdb/am2vkdb/internal/domain"
	apperrors "github.com/kuwavkdb/am2vkdb/internal/errors"
	"github.com/kuwavkdb/am2vkdb/internal/events"
)

// setupTestStore creates a temporary store for testing
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	// Create temp directory for test database
	tmpDir, err := os.MkdirTemp("", "am2vkdb-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")

	// Create store with noop emitter for testing
	store, err := New(dbPath, slog.New(slog.DiscardHandler), NewNoopEmitter())
	require.NoError(t, err)
	require.NotNil(t, store)

	// Return cleanup function
	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

// recordingEmitter captures emitted events for assertions.
type recordingEmitter struct {
	events []events.Event
}

func (r *recordingEmitter) Emit(event any) {
	if evt, ok := event.(events.Event); ok {
		r.events = append(r.events, evt)
	}
}

func TestProductRating_SetGetClear(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	// Unrated product reads as unset.
	rating, err := store.GetProductRating(ctx, "B000X1")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingUnset, rating)

	require.NoError(t, store.SetProductRating(ctx, "B000X1", domain.RatingGood))

	rating, err = store.GetProductRating(ctx, "B000X1")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingGood, rating)

	// Replace good with bad.
	require.NoError(t, store.SetProductRating(ctx, "B000X1", domain.RatingBad))

	rating, err = store.GetProductRating(ctx, "B000X1")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingBad, rating)

	require.NoError(t, store.ClearProductRating(ctx, "B000X1"))

	rating, err = store.GetProductRating(ctx, "B000X1")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingUnset, rating)
}

func TestProductRating_RejectsUnsetWrite(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.SetProductRating(context.Background(), "B000X1", domain.RatingUnset)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestProductRating_ReservedIDs(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	for _, id := range []string{"", "author:Jane Smith", "asin_author:B000X1", "format_template", "date_link_url"} {
		err := store.SetProductRating(ctx, id, domain.RatingGood)
		assert.ErrorIs(t, err, apperrors.ErrValidation, "id %q", id)
	}
}

func TestProductRating_UnknownStoredValueReadsAsUnset(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	require.NoError(t, store.setString(keyProductRating("B000X1"), "excellent"))

	rating, err := store.GetProductRating(context.Background(), "B000X1")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingUnset, rating)
}

func TestProductRating_NoRedundantEvents(t *testing.T) {
	tmpDir := t.TempDir()
	emitter := &recordingEmitter{}

	store, err := New(filepath.Join(tmpDir, "test.db"), slog.New(slog.DiscardHandler), emitter)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.SetProductRating(ctx, "B000X1", domain.RatingGood))
	require.NoError(t, store.SetProductRating(ctx, "B000X1", domain.RatingGood))
	require.NoError(t, store.ClearProductRating(ctx, "B000X2"))

	// One write changed state, the repeat and the no-op clear emit nothing.
	require.Len(t, emitter.events, 1)
	assert.Equal(t, events.EventProductRatingChanged, emitter.events[0].Type)
}

func TestAuthorRating_NormalizedKeys(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	// Full-width spelling and plain spelling hit the same record.
	require.NoError(t, store.SetAuthorRating(ctx, "Ｊａｎｅ　Ｓｍｉｔｈ", domain.RatingBad))

	rating, err := store.GetAuthorRating(ctx, "Jane Smith")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingBad, rating)

	authors, err := store.ListAuthorRatings(ctx)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "Jane Smith", authors[0].Name)
	assert.Equal(t, domain.RatingBad, authors[0].Rating)

	require.NoError(t, store.ClearAuthorRating(ctx, "Ｊａｎｅ　Ｓｍｉｔｈ"))

	rating, err = store.GetAuthorRating(ctx, "Jane Smith")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingUnset, rating)
}

func TestAuthorRating_EmptyNameRejected(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	err := store.SetAuthorRating(ctx, "   ", domain.RatingGood)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = store.GetAuthorRating(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestListAuthorRatings_Multiple(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.SetAuthorRating(ctx, "Jane Smith", domain.RatingGood))
	require.NoError(t, store.SetAuthorRating(ctx, "John Doe", domain.RatingBad))

	// Product ratings and the resolution cache do not leak into the listing.
	require.NoError(t, store.SetProductRating(ctx, "B000X1", domain.RatingGood))
	require.NoError(t, store.SetProductAuthor(ctx, "B000X1", "Jane Smith"))

	authors, err := store.ListAuthorRatings(ctx)
	require.NoError(t, err)
	assert.Len(t, authors, 2)
}

func TestProductAuthor_CacheRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	emitter := &recordingEmitter{}

	store, err := New(filepath.Join(tmpDir, "test.db"), slog.New(slog.DiscardHandler), emitter)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	_, found, err := store.GetProductAuthor(ctx, "B000X1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SetProductAuthor(ctx, "B000X1", "Ｊａｎｅ　Ｓｍｉｔｈ"))

	name, found, err := store.GetProductAuthor(ctx, "B000X1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Jane Smith", name)

	// Re-caching the same name emits nothing new.
	require.NoError(t, store.SetProductAuthor(ctx, "B000X1", "Jane Smith"))
	require.Len(t, emitter.events, 1)
	assert.Equal(t, events.EventAuthorResolved, emitter.events[0].Type)
}

func TestSettings_RoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	_, found, err := store.GetFormatTemplate(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SetFormatTemplate(ctx, "{{aitem [[asin]],[[title]]}}"))

	template, found, err := store.GetFormatTemplate(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "{{aitem [[asin]],[[title]]}}", template)

	require.NoError(t, store.SetDateLinkURL(ctx, "https://calendar.example/?day="))

	url, found, err := store.GetDateLinkURL(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "https://calendar.example/?day=", url)
}

func TestStore_UnavailableAfterClose(t *testing.T) {
	tmpDir := t.TempDir()
	emitter := &recordingEmitter{}

	store, err := New(filepath.Join(tmpDir, "test.db"), slog.New(slog.DiscardHandler), emitter)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	ctx := context.Background()

	_, err = store.GetProductRating(ctx, "B000X1")
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)

	err = store.SetAuthorRating(ctx, "Jane Smith", domain.RatingGood)
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)

	// Each failed operation surfaced a user-visible notice.
	require.NotEmpty(t, emitter.events)
	for _, evt := range emitter.events {
		assert.Equal(t, events.EventNotice, evt.Type)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	ctx := context.Background()

	store, err := New(dbPath, slog.New(slog.DiscardHandler), NewNoopEmitter())
	require.NoError(t, err)
	require.NoError(t, store.SetProductRating(ctx, "B000X1", domain.RatingGood))
	require.NoError(t, store.SetAuthorRating(ctx, "Jane Smith", domain.RatingBad))
	require.NoError(t, store.Close())

	store, err = New(dbPath, slog.New(slog.DiscardHandler), NewNoopEmitter())
	require.NoError(t, err)
	defer store.Close()

	rating, err := store.GetProductRating(ctx, "B000X1")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingGood, rating)

	rating, err = store.GetAuthorRating(ctx, "Jane Smith")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingBad, rating)
}
