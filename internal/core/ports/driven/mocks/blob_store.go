package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
)

// MockBlobStore is an in-memory mock implementation of BlobStore for testing.
type MockBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	next  int

	PutErr error
	GetErr error
}

// NewMockBlobStore creates a new mock blob store.
func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{blobs: make(map[string][]byte)}
}

// Put stores the payload and returns a generated key.
func (m *MockBlobStore) Put(ctx context.Context, data []byte, ownerID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PutErr != nil {
		return "", m.PutErr
	}
	m.next++
	key := fmt.Sprintf("%s/blob-%d", ownerID, m.next)
	stored := make([]byte, len(data))
	copy(stored, data)
	m.blobs[key] = stored
	return key, nil
}

// Get retrieves a stored payload by key.
func (m *MockBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}
	data, ok := m.blobs[key]
	if !ok {
		return nil, fmt.Errorf("blob %q: %w", key, domain.ErrNotFound)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Delete removes a stored payload.
func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

// Helper methods for testing

// Seed stores a payload under a fixed key.
func (m *MockBlobStore) Seed(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = data
}

// Len reports how many blobs are stored.
func (m *MockBlobStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}
