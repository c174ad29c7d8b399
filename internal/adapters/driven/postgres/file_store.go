package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.FileStore = (*FileStore)(nil)

// FileStore implements driven.FileStore using PostgreSQL
type FileStore struct {
	db *DB
}

// NewFileStore creates a new FileStore
func NewFileStore(db *DB) *FileStore {
	return &FileStore{db: db}
}

// Save records file metadata
func (s *FileStore) Save(ctx context.Context, file *domain.File) error {
	query := `
		INSERT INTO files (id, user_id, name, content_type, storage_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			content_type = EXCLUDED.content_type,
			storage_key = EXCLUDED.storage_key
	`
	_, err := s.db.ExecContext(ctx, query,
		file.ID,
		file.UserID,
		file.Name,
		file.ContentType,
		file.StorageKey,
		file.CreatedAt,
	)
	return err
}

// Get retrieves file metadata scoped to its owner
func (s *FileStore) Get(ctx context.Context, id, userID string) (*domain.File, error) {
	query := `
		SELECT id, user_id, name, content_type, storage_key, created_at
		FROM files
		WHERE id = $1 AND user_id = $2
	`

	var file domain.File
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&file.ID,
		&file.UserID,
		&file.Name,
		&file.ContentType,
		&file.StorageKey,
		&file.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// ListByUser returns all files owned by a user, newest first
func (s *FileStore) ListByUser(ctx context.Context, userID string) ([]*domain.File, error) {
	query := `
		SELECT id, user_id, name, content_type, storage_key, created_at
		FROM files
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*domain.File
	for rows.Next() {
		var file domain.File
		if err := rows.Scan(
			&file.ID,
			&file.UserID,
			&file.Name,
			&file.ContentType,
			&file.StorageKey,
			&file.CreatedAt,
		); err != nil {
			return nil, err
		}
		files = append(files, &file)
	}
	return files, rows.Err()
}

// Delete removes file metadata
func (s *FileStore) Delete(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM files WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
