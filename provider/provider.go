// Package provider defines the byte-store abstraction behind
// tierstore.ProviderStore.
//
// Implementations MUST be byte-for-byte transparent: Get returns exactly the
// []byte previously passed to Set for a key. Stores accumulate; there is no
// delete. Expiry, if any, is the provider's own policy (TTL, memory bound).
//
// The "<namespace>:" keyspace is owned by the ProviderStore using it.
package provider

import (
	"context"
	"time"
)

// Provider is a minimal byte store. Must be safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value. cost and ttl may be ignored if unsupported;
	// ttl <= 0 means no expiry. A value written by a successful Set
	// (ok=true) must be visible to the next Get.
	// Returns ok=false when the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Ready reports whether the backing medium is initialized and reachable.
	Ready(ctx context.Context) (bool, error)

	// Close releases resources.
	Close(ctx context.Context) error
}
