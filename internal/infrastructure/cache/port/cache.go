package port

import (
	"context"
	"time"
)

// Cache is the minimal key-value contract the application depends on.
// Implementations must be safe for concurrent use and context-aware so
// callers control timeouts. Values are plain strings; serialization is the
// caller's concern.
type Cache interface {
	// Get fetches the value for key, returning ErrMiss when the key is
	// absent. Any other non-nil error is a transport or server failure.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key. A zero or negative TTL means no expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Close releases held resources.
	Close() error
}

// ErrMiss signals a cache miss in a typed way, distinguishing absence from
// transport errors.
var ErrMiss = errMiss{}

type errMiss struct{}

func (errMiss) Error() string { return "cache: miss" }
