package driving

import (
	"context"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
)

// AuthService handles account registration and authentication
type AuthService interface {
	// Register creates a new user account
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.UserSummary, error)

	// Authenticate validates credentials and creates a session
	Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)

	// ValidateToken validates a JWT token and returns the auth context
	ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error)

	// Logout invalidates the session
	Logout(ctx context.Context, sessionID string) error
}
