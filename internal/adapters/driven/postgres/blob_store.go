package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.BlobStore = (*BlobStore)(nil)

// BlobStore implements driven.BlobStore using a bytea column. Uploaded
// documents are small enough that a dedicated object store is not worth the
// extra moving part.
type BlobStore struct {
	db *DB
}

// NewBlobStore creates a new BlobStore
func NewBlobStore(db *DB) *BlobStore {
	return &BlobStore{db: db}
}

// Put stores the payload and returns a generated key
func (s *BlobStore) Put(ctx context.Context, data []byte, ownerID string) (string, error) {
	key := fmt.Sprintf("%s/%s", ownerID, uuid.NewString())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (key, user_id, data) VALUES ($1, $2, $3)`,
		key, ownerID, data,
	)
	if err != nil {
		return "", err
	}
	return key, nil
}

// Get retrieves a stored payload by key
func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM blobs WHERE key = $1`, key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("blob %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Delete removes a stored payload
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = $1`, key)
	return err
}
