package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driven"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driving"
)

// Ensure queryService implements QueryService
var _ driving.QueryService = (*queryService)(nil)

// queryService runs the retrieval-augmented query pipeline:
// lookup -> embed query -> rank -> assemble -> generate.
// Every step is read-only; concurrent queries against the same document do
// not block each other.
type queryService struct {
	userStore    driven.UserStore
	contentStore driven.ParsedContentStore
	embedder     driven.EmbeddingService
	answerer     *Answerer
	logger       *slog.Logger
}

// NewQueryService creates a new QueryService. The embedder must be the same
// instance used during ingestion so query and chunk vectors share one
// vector space.
func NewQueryService(
	userStore driven.UserStore,
	contentStore driven.ParsedContentStore,
	embedder driven.EmbeddingService,
	answerer *Answerer,
	logger *slog.Logger,
) driving.QueryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &queryService{
		userStore:    userStore,
		contentStore: contentStore,
		embedder:     embedder,
		answerer:     answerer,
		logger:       logger,
	}
}

// Query answers a question against one ingested document.
func (s *queryService) Query(ctx context.Context, owner, fileID string, req domain.QueryRequest) (*domain.QueryResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	req.Normalize()

	// Lookup. Owner resolution happens before any embedding work so an
	// unknown owner never costs a model call.
	user, err := s.userStore.GetByUsername(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("owner %q: %w", owner, domain.ErrNotFound)
	}

	doc, err := s.contentStore.Get(ctx, fileID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("parsed content for file %q: %w", fileID, err)
	}
	if !doc.HasContent() {
		return nil, fmt.Errorf("file %q: %w", fileID, domain.ErrNotParsed)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("file %q: %w", fileID, err)
	}
	if doc.EmbeddingModel != "" && doc.EmbeddingModel != s.embedder.Model() {
		return nil, fmt.Errorf("file %q embedded with %q, configured model is %q: %w",
			fileID, doc.EmbeddingModel, s.embedder.Model(), domain.ErrEmbeddingModelMismatch)
	}

	// Embed the query in the document's vector space.
	queryVector, err := s.embedder.EmbedQuery(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", domain.ErrEmbedding, err)
	}

	// Rank stored chunks by cosine similarity.
	ranked := TopK(queryVector, doc.Vectors(), req.TopK)
	if len(ranked) == 0 {
		return &domain.QueryResult{
			Answer:       FallbackAnswer,
			SourceChunks: []domain.SourceChunk{},
			FileID:       fileID,
			Query:        req.Query,
		}, nil
	}

	sources := make([]domain.SourceChunk, len(ranked))
	for i, r := range ranked {
		sources[i] = domain.SourceChunk{
			ChunkIndex: r.Index,
			Text:       doc.Chunks[r.Index].Text,
			Score:      r.Score,
		}
	}

	// Stop here if the caller has gone away; the generation call is the
	// expensive step.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	answer, err := s.answerer.Generate(ctx, s.answerer.AssembleContext(sources), req.Query)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("query answered",
		"file_id", fileID,
		"top_k", req.TopK,
		"retrieved", len(sources),
		"answer_length", len(answer),
	)

	return &domain.QueryResult{
		Answer:       answer,
		SourceChunks: sources,
		FileID:       fileID,
		Query:        req.Query,
	}, nil
}
