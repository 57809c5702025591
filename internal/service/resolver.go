package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kuwavkdb/am2vkdb/internal/domain"
	apperrors "github.com/kuwavkdb/am2vkdb/internal/errors"
	"github.com/kuwavkdb/am2vkdb/internal/legacy"
	"github.com/kuwavkdb/am2vkdb/internal/normalize"
	"github.com/kuwavkdb/am2vkdb/internal/page"
	"github.com/kuwavkdb/am2vkdb/internal/store"
	"github.com/kuwavkdb/am2vkdb/internal/view"
)

// AuthorFetcher retrieves an author name from a product detail page.
// Implemented by page.Client.
type AuthorFetcher interface {
	FetchAuthor(ctx context.Context, pageURL string) (string, error)
}

// cacheEntry records the outcome of a resolution for one product.
// A noInfo entry means the detail page had no author region; that outcome
// is remembered for the process lifetime so the page is not refetched.
// Fetch failures are NOT cached and will be retried.
type cacheEntry struct {
	name   string
	noInfo bool
}

// ResolverService resolves author names for products, lazily and at most
// once per product. Hovering a container schedules a debounced fetch of
// the product's detail page; moving away before the debounce fires cancels
// it so grazing the pointer across a list costs no requests.
type ResolverService struct {
	store   *store.Store
	legacy  *legacy.List
	surface view.Surface
	sync    *SyncService
	fetcher AuthorFetcher
	logger  *slog.Logger

	debounce     time.Duration
	fetchTimeout time.Duration

	mu       sync.Mutex
	cache    map[string]cacheEntry  // product ID -> outcome
	timers   map[string]*time.Timer // container ID -> pending hover timer
	inflight map[string]struct{}    // product ID -> fetch in progress
	closed   bool
}

// NewResolverService creates a ResolverService.
func NewResolverService(
	st *store.Store,
	legacyList *legacy.List,
	surface view.Surface,
	syncSvc *SyncService,
	fetcher AuthorFetcher,
	logger *slog.Logger,
	debounce, fetchTimeout time.Duration,
) *ResolverService {
	return &ResolverService{
		store:        st,
		legacy:       legacyList,
		surface:      surface,
		sync:         syncSvc,
		fetcher:      fetcher,
		logger:       logger,
		debounce:     debounce,
		fetchTimeout: fetchTimeout,
		cache:        make(map[string]cacheEntry),
		timers:       make(map[string]*time.Timer),
		inflight:     make(map[string]struct{}),
	}
}

// Close cancels all pending hover timers.
func (r *ResolverService) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for id, timer := range r.timers {
		timer.Stop()
		delete(r.timers, id)
	}
}

// Prime records an already-known author name for a product, from a rendered
// label or an earlier session, so the detail page is never fetched for it.
func (r *ResolverService) Prime(ctx context.Context, productID, name string) {
	key := normalize.Name(name)
	if key == "" {
		return
	}

	r.mu.Lock()
	_, known := r.cache[productID]
	if !known {
		r.cache[productID] = cacheEntry{name: key}
	}
	r.mu.Unlock()

	if known {
		return
	}

	if err := r.store.SetProductAuthor(ctx, productID, key); err != nil {
		r.logger.Warn("failed to persist primed author",
			slog.String("product_id", productID),
			slog.String("error", err.Error()))
	}
}

// Cached returns the cached author name for a product, if resolution has
// already succeeded.
func (r *ResolverService) Cached(productID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.cache[productID]
	if !ok || entry.noInfo {
		return "", false
	}
	return entry.name, true
}

// ScheduleHover starts the debounce timer for a hovered container.
// Hovering again before the timer fires restarts it. Containers that
// already show an author, and products already resolved or being resolved,
// schedule nothing.
func (r *ResolverService) ScheduleHover(ctx context.Context, containerID string) error {
	c, ok := r.surface.Container(containerID)
	if !ok {
		return apperrors.NotFoundf("container %q not found", containerID)
	}

	if label, has := c.AuthorLabel(); has {
		// The page already shows the author, remember it instead of fetching.
		r.Prime(ctx, c.ProductID(), label)
		return nil
	}

	productID := c.ProductID()
	detailURL := c.DetailURL()
	if detailURL == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	if _, done := r.cache[productID]; done {
		return nil
	}
	if _, busy := r.inflight[productID]; busy {
		return nil
	}

	if timer, pending := r.timers[containerID]; pending {
		timer.Stop()
	}
	r.timers[containerID] = time.AfterFunc(r.debounce, func() {
		r.fireHover(containerID, productID, detailURL)
	})
	return nil
}

// CancelHover stops the pending debounce timer for a container, if any.
func (r *ResolverService) CancelHover(containerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if timer, ok := r.timers[containerID]; ok {
		timer.Stop()
		delete(r.timers, containerID)
	}
}

// fireHover runs when a hover debounce expires.
func (r *ResolverService) fireHover(containerID, productID, detailURL string) {
	r.mu.Lock()
	delete(r.timers, containerID)

	// The product may have been resolved by another container while this
	// timer was pending.
	if _, done := r.cache[productID]; done {
		r.mu.Unlock()
		return
	}
	if _, busy := r.inflight[productID]; busy {
		r.mu.Unlock()
		return
	}
	r.inflight[productID] = struct{}{}
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), r.fetchTimeout)
	defer cancel()

	if _, err := r.fetchAndApply(ctx, productID, detailURL); err != nil {
		if !apperrors.Is(err, apperrors.ErrNoInformation) {
			r.logger.Warn("hover resolution failed",
				slog.String("product_id", productID),
				slog.String("error", err.Error()))
		}
	}
}

// ResolveForProduct resolves the author for a product synchronously, for
// callers that need the name now, e.g. the good-rating cascade. Resolution
// sources in order: cache, a rendered label on any of the product's
// containers, the persisted resolution cache, the detail page.
func (r *ResolverService) ResolveForProduct(ctx context.Context, productID string) (string, error) {
	if name, ok := r.Cached(productID); ok {
		return name, nil
	}

	r.mu.Lock()
	entry, known := r.cache[productID]
	r.mu.Unlock()
	if known && entry.noInfo {
		return "", apperrors.ErrNoInformation
	}

	var detailURL string
	for _, c := range r.surface.ContainersByProduct(productID) {
		if label, ok := c.AuthorLabel(); ok {
			r.Prime(ctx, productID, label)
			return normalize.Name(label), nil
		}
		if detailURL == "" {
			detailURL = c.DetailURL()
		}
	}

	if name, found, err := r.store.GetProductAuthor(ctx, productID); err != nil {
		return "", err
	} else if found {
		r.mu.Lock()
		r.cache[productID] = cacheEntry{name: name}
		r.mu.Unlock()
		return name, nil
	}

	if detailURL == "" {
		return "", apperrors.ResolutionFailed("no detail page known for product")
	}

	r.mu.Lock()
	if _, busy := r.inflight[productID]; busy {
		r.mu.Unlock()
		return "", apperrors.ResolutionFailed("resolution already in progress")
	}
	r.inflight[productID] = struct{}{}
	r.mu.Unlock()

	return r.fetchAndApply(ctx, productID, detailURL)
}

// fetchAndApply fetches the detail page and applies the outcome. The caller
// must have registered productID as inflight; fetchAndApply clears it.
func (r *ResolverService) fetchAndApply(ctx context.Context, productID, detailURL string) (string, error) {
	defer func() {
		r.mu.Lock()
		delete(r.inflight, productID)
		r.mu.Unlock()
	}()

	name, err := r.fetcher.FetchAuthor(ctx, detailURL)
	if apperrors.Is(err, page.ErrNoAuthor) {
		// The page genuinely carries no author. Remember that so the page
		// is not refetched every hover.
		r.mu.Lock()
		r.cache[productID] = cacheEntry{noInfo: true}
		r.mu.Unlock()

		r.logger.Info("detail page has no author information",
			slog.String("product_id", productID))
		return "", apperrors.ErrNoInformation
	}
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeResolutionFailed, "fetch detail page")
	}

	key := normalize.Name(name)

	r.mu.Lock()
	r.cache[productID] = cacheEntry{name: key}
	r.mu.Unlock()

	if err := r.store.SetProductAuthor(ctx, productID, key); err != nil {
		r.logger.Warn("failed to persist resolved author",
			slog.String("product_id", productID),
			slog.String("error", err.Error()))
	}

	rating, err := r.effectiveAuthorRating(ctx, key)
	if err != nil {
		r.logger.Warn("failed to read author rating after resolution",
			slog.String("author", key),
			slog.String("error", err.Error()))
		rating = domain.RatingUnset
	}
	r.sync.InsertResolvedAuthor(productID, key, rating)

	r.logger.Info("author resolved",
		slog.String("product_id", productID),
		slog.String("author", key))
	return key, nil
}

// effectiveAuthorRating is the stored rating, falling back to the legacy
// bad-author list when nothing is stored.
func (r *ResolverService) effectiveAuthorRating(ctx context.Context, name string) (domain.Rating, error) {
	rating, err := r.store.GetAuthorRating(ctx, name)
	if err != nil {
		return domain.RatingUnset, err
	}
	if rating.IsSet() {
		return rating, nil
	}
	return r.legacy.Rating(name), nil
}
