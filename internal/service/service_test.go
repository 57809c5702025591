package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kuwavkdb/am2vkdb/internal/legacy"
	"github.com/kuwavkdb/am2vkdb/internal/store"
	"github.com/kuwavkdb/am2vkdb/internal/view"
)

const testDebounce = 25 * time.Millisecond

// fakeFetcher is a scripted AuthorFetcher that counts its calls.
type fakeFetcher struct {
	mu    sync.Mutex
	name  string
	err   error
	calls int
}

func (f *fakeFetcher) FetchAuthor(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.name, f.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type testEnv struct {
	store    *store.Store
	legacy   *legacy.List
	surface  *view.MemorySurface
	sync     *SyncService
	fetcher  *fakeFetcher
	resolver *ResolverService
	ratings  *RatingService
	settings *SettingsService
}

// newTestEnv wires a full service stack over a temporary store.
// legacyNames, when non-empty, becomes the content of a deleted-artists
// export file.
func newTestEnv(t *testing.T, legacyNames string) *testEnv {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"), logger, store.NewNoopEmitter())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	legacyPath := ""
	if legacyNames != "" {
		legacyPath = filepath.Join(t.TempDir(), "deleted_artists.txt")
		require.NoError(t, os.WriteFile(legacyPath, []byte(legacyNames), 0o644))
	}
	legacyList, err := legacy.Load(legacyPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { legacyList.Close() })

	surface := view.NewMemorySurface()
	syncSvc := NewSyncService(surface, logger)
	fetcher := &fakeFetcher{}
	resolver := NewResolverService(st, legacyList, surface, syncSvc, fetcher, logger, testDebounce, 5*time.Second)
	t.Cleanup(resolver.Close)

	return &testEnv{
		store:    st,
		legacy:   legacyList,
		surface:  surface,
		sync:     syncSvc,
		fetcher:  fetcher,
		resolver: resolver,
		ratings:  NewRatingService(st, legacyList, surface, syncSvc, resolver, logger),
		settings: NewSettingsService(st, logger),
	}
}

func (e *testEnv) addContainer(t *testing.T, productID, authorLabel, detailURL string) view.Container {
	t.Helper()
	c, err := e.surface.Add(productID, authorLabel, detailURL)
	require.NoError(t, err)
	return c
}
