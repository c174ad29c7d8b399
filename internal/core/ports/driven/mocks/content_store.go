package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
)

// MockFileStore is an in-memory mock implementation of FileStore for testing.
type MockFileStore struct {
	mu    sync.Mutex
	files map[string]*domain.File

	SaveErr error
}

// NewMockFileStore creates a new mock file store.
func NewMockFileStore() *MockFileStore {
	return &MockFileStore{files: make(map[string]*domain.File)}
}

// Save stores file metadata.
func (m *MockFileStore) Save(ctx context.Context, file *domain.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	cp := *file
	m.files[file.ID] = &cp
	return nil
}

// Get retrieves file metadata scoped to its owner.
func (m *MockFileStore) Get(ctx context.Context, id, userID string) (*domain.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	file, ok := m.files[id]
	if !ok || file.UserID != userID {
		return nil, fmt.Errorf("file %q: %w", id, domain.ErrNotFound)
	}
	cp := *file
	return &cp, nil
}

// ListByUser returns all files owned by a user, newest first.
func (m *MockFileStore) ListByUser(ctx context.Context, userID string) ([]*domain.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.File
	for _, f := range m.files {
		if f.UserID == userID {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes file metadata.
func (m *MockFileStore) Delete(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	file, ok := m.files[id]
	if !ok || file.UserID != userID {
		return fmt.Errorf("file %q: %w", id, domain.ErrNotFound)
	}
	delete(m.files, id)
	return nil
}

// MockParsedContentStore is an in-memory mock implementation of
// ParsedContentStore for testing. Save is atomic in the same sense the real
// store is: the record either appears whole or not at all.
type MockParsedContentStore struct {
	mu   sync.Mutex
	docs map[string]*domain.ParsedDocument

	SaveErr   error
	GetErr    error
	SaveCalls int
}

// NewMockParsedContentStore creates a new mock parsed content store.
func NewMockParsedContentStore() *MockParsedContentStore {
	return &MockParsedContentStore{docs: make(map[string]*domain.ParsedDocument)}
}

func contentKey(fileID, userID string) string {
	return fileID + "/" + userID
}

// Save stores a parsed document.
func (m *MockParsedContentStore) Save(ctx context.Context, doc *domain.ParsedDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.SaveCalls++
	cp := *doc
	cp.Chunks = append([]domain.ParsedChunk(nil), doc.Chunks...)
	m.docs[contentKey(doc.FileID, doc.UserID)] = &cp
	return nil
}

// Get retrieves a parsed document by document identity.
func (m *MockParsedContentStore) Get(ctx context.Context, fileID, userID string) (*domain.ParsedDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}
	doc, ok := m.docs[contentKey(fileID, userID)]
	if !ok {
		return nil, fmt.Errorf("parsed content for file %q: %w", fileID, domain.ErrNotFound)
	}
	cp := *doc
	cp.Chunks = append([]domain.ParsedChunk(nil), doc.Chunks...)
	return &cp, nil
}

// Exists reports whether a parsed record is stored for the document identity.
func (m *MockParsedContentStore) Exists(ctx context.Context, fileID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.docs[contentKey(fileID, userID)]
	return ok, nil
}

// Helper methods for testing

// Seed stores a parsed document directly.
func (m *MockParsedContentStore) Seed(doc *domain.ParsedDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[contentKey(doc.FileID, doc.UserID)] = doc
}

// Len reports how many parsed records are stored.
func (m *MockParsedContentStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}
