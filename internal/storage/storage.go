// Package storage remembers the last published version of every mirrored endpoint.
package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/estecon/estecon-client/internal/domain"
)

// Store tracks, per endpoint, the digest of the last published snapshot.
type Store interface {
	Close() error
	// LastDigest returns "" when nothing was recorded or the record expired.
	LastDigest(endpointID string) (string, error)
	Remember(snap domain.Snapshot) error
}

// Record is the persisted state of one endpoint.
type Record struct {
	Digest    string    `json:"digest"`
	URL       string    `json:"url"`
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Options controls retention. A record older than TTL is forgotten, so an
// unchanged document is published again once per TTL.
type Options struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

const (
	defaultTTL             = 24 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
)

// NewStore creates the configured backend: "bbolt", or "none" to disable tracking.
func NewStore(typ, path string, opts Options) (Store, error) {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}

	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

type noopStore struct{}

func (noopStore) Close() error                      { return nil }
func (noopStore) LastDigest(string) (string, error) { return "", nil }
func (noopStore) Remember(domain.Snapshot) error    { return nil }
