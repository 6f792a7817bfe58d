package syncer

import (
	"context"

	"github.com/estecon/estecon-client/internal/domain"
	"github.com/estecon/estecon-client/pkg/publishers"
)

// EventPublisher publishes snapshots downstream and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Tracker remembers the digest last published for each endpoint.
type Tracker interface {
	LastDigest(endpointID string) (string, error)
	Remember(snap domain.Snapshot) error
}
