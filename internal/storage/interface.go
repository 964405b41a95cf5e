package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// Entry is a key with its raw JSON value.
type Entry struct {
	Key   string
	Value []byte
}

// Store is the durable key-value backend that owns every persisted entity.
// Values are JSON documents. There are no multi-key transactions: callers
// that touch several keys issue independent writes, so a crash part way
// through can leave orphaned records behind.
type Store interface {
	// Get returns the value stored at key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set inserts or replaces the value at key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// ListByPrefix returns every entry whose key starts with prefix.
	// Order is unspecified; callers sort when order matters.
	ListByPrefix(ctx context.Context, prefix string) ([]Entry, error)

	// Close releases the backend.
	Close() error
}
