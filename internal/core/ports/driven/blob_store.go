package driven

import "context"

// BlobStore holds raw uploaded file bytes, keyed by an opaque storage key
type BlobStore interface {
	// Put stores a blob for an owner and returns its storage key
	Put(ctx context.Context, data []byte, ownerID string) (string, error)

	// Get retrieves a blob by storage key.
	// Returns domain.ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a blob. Safe to call for absent keys.
	Delete(ctx context.Context, key string) error
}
