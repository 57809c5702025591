// Package view defines the contract between the rating engine and the
// rendering layer.
//
// A Container is one on-screen card for a product. The same product can
// appear in any number of containers at once (search results, carousels,
// recommendation strips), and every instance must show the same markers.
// The engine never touches rendering directly; it mutates containers
// through this interface and the rendering layer paints them.
package view

import "github.com/kuwavkdb/am2vkdb/internal/domain"

// Container is a single rendered product card.
//
// Implementations must be safe for concurrent use: the engine updates
// markers from request goroutines and resolver timers concurrently.
type Container interface {
	// ID is the registration handle for this card instance.
	ID() string
	// ProductID is the catalog identifier of the product shown.
	ProductID() string
	// DetailURL is the product detail page, used for author resolution.
	// Empty when the card has no usable link.
	DetailURL() string

	// AuthorLabel returns the author text currently rendered on the card.
	// ok is false when the card renders no author region at all.
	AuthorLabel() (label string, ok bool)
	// InsertAuthorLabel renders an author label on a card that had none.
	// A card that already shows a label keeps it.
	InsertAuthorLabel(name string)

	// Marker state. Setting the same value again is a no-op.
	SetProductMarker(r domain.Rating)
	ProductMarker() domain.Rating
	SetAuthorMarker(r domain.Rating)
	AuthorMarker() domain.Rating
	SetEmphasis(e domain.Emphasis)
	Emphasis() domain.Emphasis
}

// Surface is the set of live containers the rendering layer currently shows.
type Surface interface {
	// Containers returns every live container.
	Containers() []Container
	// ContainersByProduct returns the live containers showing productID.
	ContainersByProduct(productID string) []Container
	// Container looks up a container by its registration handle.
	Container(id string) (Container, bool)
	// Subscribe registers a callback invoked for every container that
	// appears after the call. The returned function cancels the
	// subscription.
	Subscribe(fn func(Container)) (cancel func())
}

// Registry is a Surface the rendering layer can register cards with.
type Registry interface {
	Surface

	// Add registers a newly rendered card and notifies subscribers.
	// authorLabel may be empty when the card renders no author region.
	Add(productID, authorLabel, detailURL string) (Container, error)
	// Remove drops a card that left the screen. Returns false when the
	// handle is unknown.
	Remove(id string) bool
}
