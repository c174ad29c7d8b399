package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driven"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driving"
)

// Ensure fileService implements FileService
var _ driving.FileService = (*fileService)(nil)

// fileService handles upload and listing of document files
type fileService struct {
	userStore driven.UserStore
	fileStore driven.FileStore
	blobStore driven.BlobStore
}

// NewFileService creates a new FileService
func NewFileService(
	userStore driven.UserStore,
	fileStore driven.FileStore,
	blobStore driven.BlobStore,
) driving.FileService {
	return &fileService{
		userStore: userStore,
		fileStore: fileStore,
		blobStore: blobStore,
	}
}

// Upload stores the raw bytes and records file metadata.
func (s *fileService) Upload(ctx context.Context, owner, name, contentType string, data []byte) (*domain.File, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: missing file name", domain.ErrInvalidInput)
	}
	if contentType == "" {
		return nil, fmt.Errorf("%w: missing content type", domain.ErrInvalidInput)
	}

	user, err := s.userStore.GetByUsername(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("owner %q: %w", owner, domain.ErrNotFound)
	}

	key, err := s.blobStore.Put(ctx, data, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	file := &domain.File{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Name:        name,
		ContentType: contentType,
		StorageKey:  key,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.fileStore.Save(ctx, file); err != nil {
		// The metadata row is the source of truth; without it the blob is
		// unreachable, so clean it up best-effort.
		_ = s.blobStore.Delete(ctx, key)
		return nil, fmt.Errorf("save file metadata: %w", err)
	}

	return file, nil
}

// List returns all files owned by a user, newest first.
func (s *fileService) List(ctx context.Context, owner string) ([]*domain.File, error) {
	user, err := s.userStore.GetByUsername(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("owner %q: %w", owner, domain.ErrNotFound)
	}
	return s.fileStore.ListByUser(ctx, user.ID)
}

// Get retrieves one file's metadata.
func (s *fileService) Get(ctx context.Context, owner, fileID string) (*domain.File, error) {
	user, err := s.userStore.GetByUsername(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("owner %q: %w", owner, domain.ErrNotFound)
	}
	return s.fileStore.Get(ctx, fileID, user.ID)
}
