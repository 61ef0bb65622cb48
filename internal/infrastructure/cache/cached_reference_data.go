package cache

import (
	"context"
	"time"

	apporder "github.com/backoffice/backend/internal/application/order"
	"github.com/google/uuid"
)

// DefaultReferenceTTL bounds how long a deleted or deactivated reference
// can still pass validation.
const DefaultReferenceTTL = 5 * time.Minute

// CachedPartyRegistry decorates a PartyRegistry with an existence cache.
// Hits skip the underlying lookup entirely; misses fall through and cache
// positive results only.
type CachedPartyRegistry struct {
	next  apporder.PartyRegistry
	store ExistenceStore
	ttl   time.Duration
}

// NewCachedPartyRegistry creates a new CachedPartyRegistry
func NewCachedPartyRegistry(next apporder.PartyRegistry, store ExistenceStore, ttl time.Duration) *CachedPartyRegistry {
	if ttl <= 0 {
		ttl = DefaultReferenceTTL
	}
	return &CachedPartyRegistry{next: next, store: store, ttl: ttl}
}

// SupplierExists reports whether the supplier exists, consulting the cache first
func (r *CachedPartyRegistry) SupplierExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return cachedLookup(ctx, r.store, "supplier:"+id.String(), r.ttl, func() (bool, error) {
		return r.next.SupplierExists(ctx, id)
	})
}

// CustomerExists reports whether the customer exists, consulting the cache first
func (r *CachedPartyRegistry) CustomerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return cachedLookup(ctx, r.store, "customer:"+id.String(), r.ttl, func() (bool, error) {
		return r.next.CustomerExists(ctx, id)
	})
}

// CachedReferenceData decorates a ReferenceData port with an existence cache
type CachedReferenceData struct {
	next  apporder.ReferenceData
	store ExistenceStore
	ttl   time.Duration
}

// NewCachedReferenceData creates a new CachedReferenceData
func NewCachedReferenceData(next apporder.ReferenceData, store ExistenceStore, ttl time.Duration) *CachedReferenceData {
	if ttl <= 0 {
		ttl = DefaultReferenceTTL
	}
	return &CachedReferenceData{next: next, store: store, ttl: ttl}
}

// WarehouseExists reports whether the warehouse exists, consulting the cache first
func (r *CachedReferenceData) WarehouseExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return cachedLookup(ctx, r.store, "warehouse:"+id.String(), r.ttl, func() (bool, error) {
		return r.next.WarehouseExists(ctx, id)
	})
}

// ProductExists reports whether the product exists, consulting the cache first
func (r *CachedReferenceData) ProductExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return cachedLookup(ctx, r.store, "product:"+id.String(), r.ttl, func() (bool, error) {
		return r.next.ProductExists(ctx, id)
	})
}

// PaymentMethodValid reports whether the payment method is valid, consulting
// the cache first
func (r *CachedReferenceData) PaymentMethodValid(ctx context.Context, id uuid.UUID) (bool, error) {
	return cachedLookup(ctx, r.store, "payment_method:"+id.String(), r.ttl, func() (bool, error) {
		return r.next.PaymentMethodValid(ctx, id)
	})
}

// cachedLookup consults the cache, falls through to the source on a miss,
// and caches positive results. Cache failures degrade to a direct lookup
// rather than failing the request.
func cachedLookup(ctx context.Context, store ExistenceStore, key string, ttl time.Duration, source func() (bool, error)) (bool, error) {
	if hit, err := store.Exists(ctx, key); err == nil && hit {
		return true, nil
	}

	found, err := source()
	if err != nil {
		return false, err
	}
	if found {
		// Best effort: a failed write only costs a future lookup
		_ = store.MarkExists(ctx, key, ttl)
	}
	return found, nil
}

// Ensure the decorators implement the application ports
var (
	_ apporder.PartyRegistry = (*CachedPartyRegistry)(nil)
	_ apporder.ReferenceData = (*CachedReferenceData)(nil)
)
