package cache

import (
	"context"
	"time"
)

// Cache is the key/value store behind display statistics (e.g. Redis).
// The controller treats it as best-effort: a failed write must never
// stall the display loop.
type Cache interface {
	// Ping checks if the cache is reachable.
	Ping(ctx context.Context) error

	// Set stores a value with the given TTL. TTL 0 means no expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Get retrieves a value by key.
	// Implementations should return a clear "not found" error if missing.
	Get(ctx context.Context, key string) (string, error)

	// Del removes a key. No-op if the key does not exist.
	Del(ctx context.Context, key string) error

	// Incr atomically increments a counter and returns the new value.
	// Missing keys start at zero.
	Incr(ctx context.Context, key string) (int64, error)
}
