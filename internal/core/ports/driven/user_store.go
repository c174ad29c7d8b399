package driven

import (
	"context"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
)

// UserStore handles user persistence (PostgreSQL)
type UserStore interface {
	// Save creates a user.
	// Returns domain.ErrAlreadyExists if the username or email is taken.
	Save(ctx context.Context, user *domain.User) error

	// Get retrieves a user by ID
	Get(ctx context.Context, id string) (*domain.User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// SessionStore handles session persistence (Redis or PostgreSQL)
type SessionStore interface {
	// Save stores a session with its TTL
	Save(ctx context.Context, session *domain.Session) error

	// Get retrieves a session by ID.
	// Returns domain.ErrSessionNotFound if absent or expired.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Delete removes a session
	Delete(ctx context.Context, id string) error
}
