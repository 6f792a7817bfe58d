package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Snapshot is one fetched JSON document of a mirrored endpoint.
type Snapshot struct {
	EndpointID string          `json:"endpoint_id"`
	URL        string          `json:"url"`
	Digest     string          `json:"digest"`
	Body       json.RawMessage `json:"body"`
	FetchedAt  time.Time       `json:"fetched_at"`
}

// NewSnapshot stamps body with its SHA-256 digest and the current time.
func NewSnapshot(endpointID, url string, body json.RawMessage) Snapshot {
	return Snapshot{
		EndpointID: endpointID,
		URL:        url,
		Digest:     Digest(body),
		Body:       body,
		FetchedAt:  time.Now().UTC(),
	}
}

// Digest returns the hex SHA-256 of body.
func Digest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
