package driven

import (
	"context"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
)

// FileStore handles uploaded file metadata persistence (PostgreSQL)
type FileStore interface {
	// Save creates a file metadata record
	Save(ctx context.Context, file *domain.File) error

	// Get retrieves a file by ID and owner.
	// Returns domain.ErrNotFound if no such file exists for that owner.
	Get(ctx context.Context, id, userID string) (*domain.File, error)

	// ListByUser retrieves all files owned by a user, newest first
	ListByUser(ctx context.Context, userID string) ([]*domain.File, error)

	// Delete deletes a file record
	Delete(ctx context.Context, id, userID string) error
}

// ParsedContentStore handles parsed document persistence (PostgreSQL).
// A parsed document is written exactly once per (file_id, user_id) and is
// immutable afterwards.
type ParsedContentStore interface {
	// Save persists a parsed document atomically: either the full record
	// (raw text plus every chunk) is committed or nothing is
	Save(ctx context.Context, doc *domain.ParsedDocument) error

	// Get retrieves a parsed document with all chunk records.
	// Returns domain.ErrNotFound if the document was never ingested.
	Get(ctx context.Context, fileID, userID string) (*domain.ParsedDocument, error)

	// Exists reports whether a parsed record is present for the file.
	// Used as the idempotency check before re-ingesting.
	Exists(ctx context.Context, fileID, userID string) (bool, error)
}
