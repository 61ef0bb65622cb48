package cache

import (
	"context"
	"time"
)

// ExistenceStore caches positive reference-existence lookups (suppliers,
// customers, warehouses, products, payment methods) so that order
// validation does not hit the master-data tables on every request.
// Only positive results are stored: a miss always falls through to the
// underlying source, so newly created references are visible immediately
// and deleted ones disappear at the latest when their TTL expires.
type ExistenceStore interface {
	// MarkExists records that the key exists, for the given TTL
	MarkExists(ctx context.Context, key string, ttl time.Duration) error
	// Exists reports whether a non-expired positive entry is cached
	Exists(ctx context.Context, key string) (bool, error)
	// Close releases resources held by the store
	Close() error
}
