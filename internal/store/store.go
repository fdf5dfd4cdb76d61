package store

import "context"

// Store is the key → blob persistence boundary the rest of the application
// builds on. Keys are flat strings; values are opaque byte slices owned by
// the caller after retrieval.
type Store interface {
	// Get returns the value for key, or a NotFound StoreError if the key
	// has never been written.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all stored keys in lexical order.
	Keys(ctx context.Context) ([]string, error)

	// Update runs fn against a transactional view. If fn returns an error
	// or a write fails, no change from the batch is visible afterwards.
	Update(ctx context.Context, fn func(Tx) error) error

	// Close releases the underlying resources.
	Close() error
}

// Tx is the view of a store inside an Update batch. Reads observe writes
// earlier in the same batch.
type Tx interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}
