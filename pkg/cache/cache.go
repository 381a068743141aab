// Package cache stores fetched unit record sets between runs.
//
// A database round trip is the slowest stage of a chart run. When caching is
// enabled the fetched records are stored under a key derived from the
// connection target and table, so repeated renders with different layout or
// theme settings reuse them.
//
// Three backends are provided:
//
//   - [NullCache] never stores anything (the default)
//   - [FileCache] keeps entries as JSON files under a directory
//   - [RedisCache] keeps entries in a Redis database
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the lifetime of a cached record set.
const DefaultTTL = 10 * time.Minute

// Cache is a byte-oriented key/value store with expiration.
//
// Get reports a miss with ok == false and a nil error. A zero ttl passed to
// Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
