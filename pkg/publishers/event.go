package publishers

import (
	"time"

	"github.com/estecon/estecon-client/internal/domain"
)

// Event represents the payload published downstream.
type Event struct {
	EndpointID   string          `json:"endpoint_id"`
	EndpointName string          `json:"endpoint_name"`
	Snapshot     domain.Snapshot `json:"snapshot"`
	PublishedAt  time.Time       `json:"published_at"`
}

// NewEvent constructs an Event for the given endpoint + snapshot.
func NewEvent(endpointID, endpointName string, snap domain.Snapshot) Event {
	return Event{
		EndpointID:   endpointID,
		EndpointName: endpointName,
		Snapshot:     snap,
		PublishedAt:  time.Now().UTC(),
	}
}

// attributes are the routing attributes attached to queue and topic messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"endpoint_id": e.EndpointID,
		"digest":      e.Snapshot.Digest,
	}
}
