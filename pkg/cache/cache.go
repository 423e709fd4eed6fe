// Package cache stores computed layouts and rendered artifacts.
//
// # Overview
//
// Laying out a large document is the expensive step of a generation, and
// the result depends only on the document text and the layout options.
// The pipeline therefore caches node positions under a key derived from the
// input hash and the options, and rendered images under a key derived from
// the layout.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory, used by the CLI
//   - [RedisCache]: a Redis server, shared by several browser servers
//   - [NullCache]: stores nothing, used when caching is disabled
//
// # Keys
//
// A [Keyer] builds keys. [DefaultKeyer] hashes the key components with
// SHA-256; [ScopedKeyer] adds a prefix so different versions or deployments
// sharing one Redis do not read each other's entries.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}
