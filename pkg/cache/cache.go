// Package cache stores rendered artifacts (SVG, layouts) keyed by the hash
// of the document and options that produced them.
//
// Implementations:
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: disables caching
//
// Wrap any of them with [Instrument] to report hits and misses to the
// observability cache hooks.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value cache with optional expiry.
type Cache interface {
	// Get returns the value and true on a hit, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// GetOrCompute returns the cached value for key, or calls compute, stores
// its result with ttl and returns it. The bool reports a cache hit. Cache
// read and write failures fall through to compute and are not returned.
func GetOrCompute(ctx context.Context, c Cache, key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, bool, error) {
	if data, hit, err := c.Get(ctx, key); err == nil && hit {
		return data, true, nil
	}
	data, err := compute()
	if err != nil {
		return nil, false, err
	}
	_ = c.Set(ctx, key, data, ttl)
	return data, false, nil
}

// NullCache never stores anything. It stands in when caching is disabled.
type NullCache struct{}

// NewNullCache returns a cache on which every Get misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
