package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
)

// MockUserStore is an in-memory mock implementation of UserStore for testing.
type MockUserStore struct {
	mu    sync.Mutex
	users map[string]*domain.User

	SaveErr error
}

// NewMockUserStore creates a new mock user store.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: make(map[string]*domain.User)}
}

// Save stores a user, rejecting duplicate usernames.
func (m *MockUserStore) Save(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	for _, u := range m.users {
		if u.Username == user.Username && u.ID != user.ID {
			return fmt.Errorf("username %q: %w", user.Username, domain.ErrAlreadyExists)
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

// Get retrieves a user by ID.
func (m *MockUserStore) Get(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", id, domain.ErrNotFound)
	}
	cp := *user
	return &cp, nil
}

// GetByUsername retrieves a user by username.
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
}

// Helper methods for testing

// Seed stores a user directly.
func (m *MockUserStore) Seed(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

// MockSessionStore is an in-memory mock implementation of SessionStore for
// testing.
type MockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

// NewMockSessionStore creates a new mock session store.
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[string]*domain.Session)}
}

// Save stores a session.
func (m *MockSessionStore) Save(ctx context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *session
	m.sessions[session.ID] = &cp
	return nil
}

// Get retrieves a session by ID.
func (m *MockSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, domain.ErrSessionNotFound)
	}
	cp := *session
	return &cp, nil
}

// Delete removes a session.
func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
