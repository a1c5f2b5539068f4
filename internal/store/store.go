// Package store abstracts the shared mutable state behind detection:
// the result cache and the per-identity rate-limit counters. The same
// orchestration logic runs against an in-process map in tests and a
// Redis deployment in production.
package store

import (
	"context"
	"time"
)

// Store is the keyed state abstraction used by the detection engine.
// All operations must be atomic per key under concurrent access.
type Store interface {
	// GetJSON reads the value at key into dst. Returns false when the
	// key is absent or expired.
	GetJSON(ctx context.Context, key string, dst any) (bool, error)

	// SetJSON stores val at key with the given TTL.
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error

	// IncrWindow atomically increments a fixed-window counter and
	// returns the new count. The window TTL is set when the counter is
	// created; the counter resets when the window elapses.
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
