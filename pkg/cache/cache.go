// Package cache stores computed chart snapshots.
//
// The pipeline keys snapshots by the hash of the chart spec, the hash of the
// data and the pointer state, so a repeated request for the same chart is
// served without recomputing the cascade. Backends:
//
//   - [FileCache] for the CLI (one file per entry, prefixed with its expiry)
//   - [RedisCache] for the HTTP server, shared across replicas
//   - [NullCache] when caching is disabled
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	// TTLSnapshot bounds how long a computed snapshot document is reused.
	TTLSnapshot = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. The boolean is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys for pipeline artifacts.
type Keyer interface {
	// SnapshotKey returns the key of a snapshot computed from a spec and a
	// data document under the given pointer state.
	SnapshotKey(specHash, dataHash string, opts SnapshotKeyOpts) string
}

// SnapshotKeyOpts holds the pointer state that changes a snapshot.
type SnapshotKeyOpts struct {
	PointerX    float64 `json:"x,omitempty"`
	PointerY    float64 `json:"y,omitempty"`
	Active      bool    `json:"active,omitempty"`
	Released    bool    `json:"released,omitempty"`
	SourceX     float64 `json:"source_x,omitempty"`
	HasSource   bool    `json:"has_source,omitempty"`
	HoverRadius float64 `json:"hover_radius,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
}

// DefaultKeyer builds keys as "prefix:sha256(parts)".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SnapshotKey implements Keyer.
func (DefaultKeyer) SnapshotKey(specHash, dataHash string, opts SnapshotKeyOpts) string {
	return hashKey("snapshot", specHash, dataHash, opts)
}

var _ Keyer = DefaultKeyer{}

// NullCache never stores anything. Every Get misses.
type NullCache struct{}

// NewNullCache returns a cache that disables caching.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
