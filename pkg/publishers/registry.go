package publishers

import (
	"context"
	"fmt"
	"strings"
)

// Builder constructs a Publisher from its config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Builders maps a publisher type to its constructor. Keys are lower case.
type Builders map[string]Builder

// DefaultBuilders knows every sink type this package ships.
func DefaultBuilders() Builders {
	return Builders{
		TypeHTTP:      newHTTPPublisher,
		TypeSQS:       newSQSPublisher,
		TypeSNS:       newSNSPublisher,
		TypeGCPPubSub: newGCPPubSubPublisher,
	}
}

// Build constructs the publisher for a single entry.
func (b Builders) Build(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	typ := strings.ToLower(strings.TrimSpace(cfg.Type))
	if typ == "" {
		return nil, fmt.Errorf("publisher %q has no type configured", cfg.ID)
	}
	build, ok := b[typ]
	if !ok || build == nil {
		return nil, fmt.Errorf("publisher %q: unsupported type %q", cfg.ID, cfg.Type)
	}
	pub, err := build(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}
	return pub, nil
}

// BuildAll constructs every entry in order. On failure the publishers built
// so far are closed and nothing is returned.
func (b Builders) BuildAll(ctx context.Context, cfgs []PublisherConfig, log Logger) ([]Publisher, error) {
	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		pub, err := b.Build(ctx, cfg, log)
		if err != nil {
			_ = NewFanout(pubs).Close()
			return nil, err
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}
