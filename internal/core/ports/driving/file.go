package driving

import (
	"context"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
)

// FileService manages uploaded document files
type FileService interface {
	// Upload stores the raw bytes in the blob store and records metadata
	Upload(ctx context.Context, owner, name, contentType string, data []byte) (*domain.File, error)

	// List returns all files owned by a user
	List(ctx context.Context, owner string) ([]*domain.File, error)

	// Get retrieves one file's metadata
	Get(ctx context.Context, owner, fileID string) (*domain.File, error)
}
