package kvs

import (
	"context"
	"time"
)

// Store defines the persistence contract for small key-value records.
// Implementations must handle concurrent access safely.
type Store interface {
	// Get retrieves the value stored under key.
	// Returns ErrNotFound when the key is absent or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A positive ttl bounds the record's
	// lifetime; zero means the record does not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases underlying resources. Operations on a closed store
	// return ErrClosed.
	Close() error
}
