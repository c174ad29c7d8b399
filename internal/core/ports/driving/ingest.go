package driving

import (
	"context"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
)

// IngestionService converts an uploaded file into stored chunks and vectors
type IngestionService interface {
	// Ingest runs extract -> chunk -> embed -> persist for a file.
	// Idempotent: if a parsed record already exists it is returned as-is.
	// At most one ingestion runs per document identity at a time; a
	// concurrent attempt fails with domain.ErrIngestInProgress.
	Ingest(ctx context.Context, owner, fileID string) (*domain.ParsedDocument, error)
}
