package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ParsedContentStore = (*ParsedContentStore)(nil)

// ParsedContentStore implements driven.ParsedContentStore using PostgreSQL
// with a pgvector embedding column. Save writes the content row and every
// chunk row inside one transaction, so a parsed record is either fully
// visible or absent.
type ParsedContentStore struct {
	db *DB
}

// NewParsedContentStore creates a new ParsedContentStore
func NewParsedContentStore(db *DB) *ParsedContentStore {
	return &ParsedContentStore{db: db}
}

// Save persists a parsed document atomically
func (s *ParsedContentStore) Save(ctx context.Context, doc *domain.ParsedDocument) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	contentQuery := `
		INSERT INTO parsed_content (file_id, user_id, raw_text, embedding_model, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (file_id, user_id) DO UPDATE SET
			raw_text = EXCLUDED.raw_text,
			embedding_model = EXCLUDED.embedding_model
	`
	if _, err := tx.ExecContext(ctx, contentQuery,
		doc.FileID,
		doc.UserID,
		doc.RawText,
		doc.EmbeddingModel,
		doc.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert parsed content: %w", err)
	}

	// Replace any previous chunk set wholesale.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM parsed_chunks WHERE file_id = $1 AND user_id = $2`,
		doc.FileID, doc.UserID,
	); err != nil {
		return fmt.Errorf("clear parsed chunks: %w", err)
	}

	chunkQuery := `
		INSERT INTO parsed_chunks (file_id, user_id, chunk_index, chunk_text, embedding)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, chunk := range doc.Chunks {
		if _, err := tx.ExecContext(ctx, chunkQuery,
			doc.FileID,
			doc.UserID,
			chunk.Index,
			chunk.Text,
			pgvector.NewVector(chunk.Embedding),
		); err != nil {
			return fmt.Errorf("insert chunk %d: %w", chunk.Index, err)
		}
	}

	return tx.Commit()
}

// Get retrieves a parsed document with its chunks in index order
func (s *ParsedContentStore) Get(ctx context.Context, fileID, userID string) (*domain.ParsedDocument, error) {
	contentQuery := `
		SELECT file_id, user_id, raw_text, embedding_model, created_at
		FROM parsed_content
		WHERE file_id = $1 AND user_id = $2
	`

	var doc domain.ParsedDocument
	err := s.db.QueryRowContext(ctx, contentQuery, fileID, userID).Scan(
		&doc.FileID,
		&doc.UserID,
		&doc.RawText,
		&doc.EmbeddingModel,
		&doc.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	chunkQuery := `
		SELECT chunk_index, chunk_text, embedding
		FROM parsed_chunks
		WHERE file_id = $1 AND user_id = $2
		ORDER BY chunk_index
	`
	rows, err := s.db.QueryContext(ctx, chunkQuery, fileID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var chunk domain.ParsedChunk
		var embedding pgvector.Vector
		if err := rows.Scan(&chunk.Index, &chunk.Text, &embedding); err != nil {
			return nil, err
		}
		chunk.Embedding = embedding.Slice()
		doc.Chunks = append(doc.Chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Exists reports whether a parsed record is stored for the document identity
func (s *ParsedContentStore) Exists(ctx context.Context, fileID, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM parsed_content WHERE file_id = $1 AND user_id = $2)`,
		fileID, userID,
	).Scan(&exists)
	return exists, err
}
