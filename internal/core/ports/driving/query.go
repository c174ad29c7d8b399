package driving

import (
	"context"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
)

// QueryService answers natural-language questions against one previously
// ingested document
type QueryService interface {
	// Query runs the retrieval pipeline: load the parsed document, embed
	// the question, rank stored chunks by cosine similarity, assemble the
	// top chunks into a grounding context and generate an answer.
	// Read-only: no step mutates stored state.
	Query(ctx context.Context, owner, fileID string, req domain.QueryRequest) (*domain.QueryResult, error)
}
