// Package cache provides the key/value store the domain services use for
// cache-aside reads. Every operation is best-effort from the caller's point
// of view: services log and discard cache errors, so correctness never
// depends on the store being reachable.
package cache

import (
	"context"
	"strings"
	"time"
)

// Store is the cache contract. Get returns sentinel.ErrNotFound on a miss
// so callers can distinguish absence from infrastructure failure.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPrefix removes every key starting with any of the given
	// prefixes. Used for coarse invalidation where one logical identifier
	// maps to multiple entries (one per sub-type).
	DeleteByPrefix(ctx context.Context, prefixes ...string) error
}

// Key builds a cache key as {domain}:{subtype}:{lookupKey}. The same
// function builds the prefixes handed to DeleteByPrefix, so key layout
// stays in one place.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
