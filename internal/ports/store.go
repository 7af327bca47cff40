package ports

import (
	"context"
	"time"
)

// CredentialStore is durable key-value persistence for session records.
// Implementations must preserve the exact payload across a Put/Get round-trip;
// serialization is the caller's responsibility.
type CredentialStore interface {
	// Put writes value under key with the given TTL.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns the stored value, or ok=false when the key is absent.
	// Store unavailability surfaces as absent, not as an error.
	Get(ctx context.Context, key string) (value string, ok bool)

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
