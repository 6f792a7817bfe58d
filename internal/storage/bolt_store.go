package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/estecon/estecon-client/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var endpointsBucket = []byte("endpoints")

var errBucketMissing = errors.New("endpoints bucket missing")

// boltStore keeps one Record per endpoint ID in a single bucket.
type boltStore struct {
	db   *bolt.DB
	opts Options
	now  func() time.Time

	mu        sync.Mutex
	nextSweep time.Time
}

func openBolt(path string, opts Options) (*boltStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(endpointsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	s := &boltStore{db: db, opts: opts, now: time.Now}
	s.nextSweep = s.now().Add(opts.CleanupInterval)
	return s, nil
}

func (s *boltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *boltStore) LastDigest(endpointID string) (string, error) {
	now := s.now()
	if err := s.sweep(now); err != nil {
		return "", err
	}

	var digest string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(endpointsBucket)
		if b == nil {
			return errBucketMissing
		}
		rec, ok := decodeRecord(b.Get([]byte(endpointID)))
		if ok && rec.ExpiresAt.After(now) {
			digest = rec.Digest
		}
		return nil
	})
	return digest, err
}

func (s *boltStore) Remember(snap domain.Snapshot) error {
	now := s.now()
	if err := s.sweep(now); err != nil {
		return err
	}

	raw, err := json.Marshal(Record{
		Digest:    snap.Digest,
		URL:       snap.URL,
		FetchedAt: snap.FetchedAt,
		ExpiresAt: now.Add(s.opts.TTL),
	})
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(endpointsBucket)
		if b == nil {
			return errBucketMissing
		}
		return b.Put([]byte(snap.EndpointID), raw)
	})
}

// sweep deletes expired or unreadable records at most once per cleanup interval.
func (s *boltStore) sweep(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Before(s.nextSweep) {
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(endpointsBucket)
		if b == nil {
			return errBucketMissing
		}
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if rec, ok := decodeRecord(v); ok && rec.ExpiresAt.After(now) {
				continue
			}
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sweep expired records: %w", err)
	}
	s.nextSweep = now.Add(s.opts.CleanupInterval)
	return nil
}

func decodeRecord(raw []byte) (Record, bool) {
	if len(raw) == 0 {
		return Record{}, false
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil || rec.Digest == "" {
		return Record{}, false
	}
	return rec, true
}
