package driven

import (
	"context"
)

// EmbeddingService generates text embeddings. One model is configured per
// deployment and used for both document chunks and queries - vectors from
// different models are not comparable.
type EmbeddingService interface {
	// Embed generates embeddings for multiple texts.
	// Output order matches input order. A failure for any item fails the
	// whole batch; there is no partial success.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a retrieval query
	EmbedQuery(ctx context.Context, query string) ([]float32, error)

	// Dimensions returns the embedding dimension size
	Dimensions() int

	// Model returns the model name being used
	Model() string

	// HealthCheck verifies the embedding service is available
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the embedding service
	Close() error
}
