// Package events implements Server-Sent Events for broadcasting rating
// changes to every connected rendering surface.
package events

import (
	"time"

	"github.com/kuwavkdb/am2vkdb/internal/domain"
)

// Rating changes flow one way, server to client; clients mutate state
// through the regular API and repaint from this stream.

// EventType represents the type of broadcast event.
type EventType string

const (
	// EventProductRatingChanged fires when a product rating is set or cleared.
	EventProductRatingChanged EventType = "product.rating_changed"
	// EventAuthorRatingChanged fires when an author rating is set or cleared.
	EventAuthorRatingChanged EventType = "author.rating_changed"
	// EventAuthorResolved fires when an author name is resolved for a product.
	EventAuthorResolved EventType = "author.resolved"
	// EventNotice carries a user-visible message, e.g. a storage outage.
	EventNotice EventType = "notice"
	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// ProductRatingEventData is the data payload for product rating events.
type ProductRatingEventData struct {
	ProductID string        `json:"product_id"`
	Rating    domain.Rating `json:"rating"`
}

// AuthorRatingEventData is the data payload for author rating events.
// Name is the normalized author key.
type AuthorRatingEventData struct {
	Name   string        `json:"name"`
	Rating domain.Rating `json:"rating"`
}

// AuthorResolvedEventData is the data payload for author resolution events.
type AuthorResolvedEventData struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
}

// NoticeEventData is the data payload for notice events.
type NoticeEventData struct {
	Message string `json:"message"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewProductRatingChangedEvent creates a product.rating_changed event.
func NewProductRatingChangedEvent(productID string, rating domain.Rating) Event {
	return Event{
		Type: EventProductRatingChanged,
		Data: ProductRatingEventData{
			ProductID: productID,
			Rating:    rating,
		},
		Timestamp: time.Now(),
	}
}

// NewAuthorRatingChangedEvent creates an author.rating_changed event.
func NewAuthorRatingChangedEvent(name string, rating domain.Rating) Event {
	return Event{
		Type: EventAuthorRatingChanged,
		Data: AuthorRatingEventData{
			Name:   name,
			Rating: rating,
		},
		Timestamp: time.Now(),
	}
}

// NewAuthorResolvedEvent creates an author.resolved event.
func NewAuthorResolvedEvent(productID, name string) Event {
	return Event{
		Type: EventAuthorResolved,
		Data: AuthorResolvedEventData{
			ProductID: productID,
			Name:      name,
		},
		Timestamp: time.Now(),
	}
}

// NewNoticeEvent creates a notice event.
func NewNoticeEvent(message string) Event {
	return Event{
		Type:      EventNotice,
		Data:      NoticeEventData{Message: message},
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Data:      HeartbeatEventData{ServerTime: time.Now()},
		Timestamp: time.Now(),
	}
}
