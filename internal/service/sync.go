package service

import (
	"log/slog"

	"github.com/kuwavkdb/am2vkdb/internal/domain"
	"github.com/kuwavkdb/am2vkdb/internal/normalize"
	"github.com/kuwavkdb/am2vkdb/internal/view"
)

// SyncService repaints every rendered container when ratings change, so a
// product shown in several places never displays stale markers.
type SyncService struct {
	surface view.Surface
	logger  *slog.Logger
}

// NewSyncService creates a SyncService over the given surface.
func NewSyncService(surface view.Surface, logger *slog.Logger) *SyncService {
	return &SyncService{
		surface: surface,
		logger:  logger,
	}
}

// ApplyProductRating updates the product marker on every container showing
// the product and recomputes each container's emphasis.
func (s *SyncService) ApplyProductRating(productID string, rating domain.Rating) {
	containers := s.surface.ContainersByProduct(productID)
	for _, c := range containers {
		c.SetProductMarker(rating)
		s.RecomputeEmphasis(c)
	}

	s.logger.Debug("product rating applied to surface",
		slog.String("product_id", productID),
		slog.String("rating", string(rating)),
		slog.Int("containers", len(containers)))
}

// ApplyAuthorRating updates the author marker on every container whose
// author label matches the normalized name and recomputes emphasis.
func (s *SyncService) ApplyAuthorRating(name string, rating domain.Rating) {
	key := normalize.Name(name)

	var updated int
	for _, c := range s.surface.Containers() {
		label, ok := c.AuthorLabel()
		if !ok || normalize.Name(label) != key {
			continue
		}
		c.SetAuthorMarker(rating)
		s.RecomputeEmphasis(c)
		updated++
	}

	s.logger.Debug("author rating applied to surface",
		slog.String("author", key),
		slog.String("rating", string(rating)),
		slog.Int("containers", updated))
}

// InsertResolvedAuthor writes a freshly resolved author name into every
// container of the product that still lacks one, painting the author
// marker as it goes. Containers that already carry a label keep it.
func (s *SyncService) InsertResolvedAuthor(productID, name string, rating domain.Rating) {
	for _, c := range s.surface.ContainersByProduct(productID) {
		c.InsertAuthorLabel(name)
		if label, ok := c.AuthorLabel(); ok && normalize.Name(label) == normalize.Name(name) {
			c.SetAuthorMarker(rating)
		}
		s.RecomputeEmphasis(c)
	}
}

// RecomputeEmphasis rederives a container's emphasis from its markers.
func (s *SyncService) RecomputeEmphasis(c view.Container) {
	c.SetEmphasis(domain.DeriveEmphasis(c.ProductMarker(), c.AuthorMarker()))
}
