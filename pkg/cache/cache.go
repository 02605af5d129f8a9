// Package cache stores fetched documents and API responses.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: entries as JSON files under ~/.cache/topoviz, for the CLI
//   - [RedisCache]: a shared Redis instance, for servers behind a balancer
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// [Namespace] scopes a cache to one kind of entry and reports hits and
// misses to the registered observability hooks:
//
//	c, _ := cache.NewFileCache("")
//	sources := cache.Namespace(c, "source")
//	data, ok, err := sources.Get(ctx, url)
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// DefaultTTL is used for fetched documents when no TTL is configured.
const DefaultTTL = 24 * time.Hour
