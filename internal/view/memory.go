package view

import (
	"slices"
	"sync"

	"github.com/kuwavkdb/am2vkdb/internal/domain"
	"github.com/kuwavkdb/am2vkdb/internal/id"
)

// MemorySurface is the in-memory Registry implementation backing the API
// view endpoints and the test suites.
type MemorySurface struct {
	mu          sync.RWMutex
	containers  map[string]*MemoryContainer
	order       []string // insertion order, for stable listings
	subscribers map[int]func(Container)
	nextSub     int
}

// NewMemorySurface creates an empty surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{
		containers:  make(map[string]*MemoryContainer),
		subscribers: make(map[int]func(Container)),
	}
}

// Add implements Registry.
func (s *MemorySurface) Add(productID, authorLabel, detailURL string) (Container, error) {
	handle, err := id.Generate("card")
	if err != nil {
		return nil, err
	}

	c := &MemoryContainer{
		id:        handle,
		productID: productID,
		detailURL: detailURL,
	}
	if authorLabel != "" {
		c.authorLabel = authorLabel
		c.hasLabel = true
	}

	s.mu.Lock()
	s.containers[handle] = c
	s.order = append(s.order, handle)
	subs := make([]func(Container), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	// Notify outside the lock; subscribers call back into the surface.
	for _, fn := range subs {
		fn(c)
	}

	return c, nil
}

// Remove implements Registry.
func (s *MemorySurface) Remove(handle string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.containers[handle]; !ok {
		return false
	}
	delete(s.containers, handle)
	s.order = slices.DeleteFunc(s.order, func(h string) bool { return h == handle })
	return true
}

// Containers implements Surface.
func (s *MemorySurface) Containers() []Container {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Container, 0, len(s.order))
	for _, handle := range s.order {
		out = append(out, s.containers[handle])
	}
	return out
}

// ContainersByProduct implements Surface.
func (s *MemorySurface) ContainersByProduct(productID string) []Container {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Container
	for _, handle := range s.order {
		if c := s.containers[handle]; c.productID == productID {
			out = append(out, c)
		}
	}
	return out
}

// Container implements Surface.
func (s *MemorySurface) Container(handle string) (Container, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.containers[handle]
	return c, ok
}

// Subscribe implements Surface.
func (s *MemorySurface) Subscribe(fn func(Container)) (cancel func()) {
	s.mu.Lock()
	key := s.nextSub
	s.nextSub++
	s.subscribers[key] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, key)
		s.mu.Unlock()
	}
}

// MemoryContainer is the in-memory Container implementation.
type MemoryContainer struct {
	mu sync.RWMutex

	id        string
	productID string
	detailURL string

	authorLabel string
	hasLabel    bool

	productMarker domain.Rating
	authorMarker  domain.Rating
	emphasis      domain.Emphasis
}

// ID implements Container.
func (c *MemoryContainer) ID() string { return c.id }

// ProductID implements Container.
func (c *MemoryContainer) ProductID() string { return c.productID }

// DetailURL implements Container.
func (c *MemoryContainer) DetailURL() string { return c.detailURL }

// AuthorLabel implements Container.
func (c *MemoryContainer) AuthorLabel() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authorLabel, c.hasLabel
}

// InsertAuthorLabel implements Container.
func (c *MemoryContainer) InsertAuthorLabel(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasLabel {
		return
	}
	c.authorLabel = name
	c.hasLabel = true
}

// SetProductMarker implements Container.
func (c *MemoryContainer) SetProductMarker(r domain.Rating) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.productMarker = r
}

// ProductMarker implements Container.
func (c *MemoryContainer) ProductMarker() domain.Rating {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.productMarker
}

// SetAuthorMarker implements Container.
func (c *MemoryContainer) SetAuthorMarker(r domain.Rating) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authorMarker = r
}

// AuthorMarker implements Container.
func (c *MemoryContainer) AuthorMarker() domain.Rating {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authorMarker
}

// SetEmphasis implements Container.
func (c *MemoryContainer) SetEmphasis(e domain.Emphasis) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emphasis = e
}

// Emphasis implements Container.
func (c *MemoryContainer) Emphasis() domain.Emphasis {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.emphasis
}
