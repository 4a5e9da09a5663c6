package ports

// Package ports defines interfaces (hexagonal ports) for console storage.
// Implementations live in internal/adapters; orchestration in internal/session and internal/service.

import (
	"context"
	"time"
)

// EntryStore is durable string key/value storage partitioned by scope.
// A scope is one browser context (or the CLI's single local context).
type EntryStore interface {
	// Get returns the present, unexpired entries among keys. Missing keys are omitted from the map.
	Get(ctx context.Context, scope string, keys ...string) (map[string]string, error)

	// Put writes all entries or none. A ttl of zero means the entries never expire.
	Put(ctx context.Context, scope string, entries map[string]string, ttl time.Duration) error

	// Delete removes keys from scope. Deleting a missing key is not an error.
	Delete(ctx context.Context, scope string, keys ...string) error
}

// EntryPurger is implemented by stores that keep expired entries until swept.
type EntryPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}
