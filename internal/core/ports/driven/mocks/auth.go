package mocks

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
)

// MockAuthAdapter is a mock implementation of AuthAdapter for testing.
// Hashing is reversible and tokens are plain base64 claims, which keeps
// assertions simple without touching real crypto.
type MockAuthAdapter struct {
	HashErr  error
	TokenErr error
}

// NewMockAuthAdapter creates a new mock auth adapter.
func NewMockAuthAdapter() *MockAuthAdapter {
	return &MockAuthAdapter{}
}

// HashPassword produces a recognizable fake hash.
func (m *MockAuthAdapter) HashPassword(password string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return "hashed:" + password, nil
}

// VerifyPassword checks a password against the fake hash format.
func (m *MockAuthAdapter) VerifyPassword(password, hash string) bool {
	return hash == "hashed:"+password
}

// GenerateToken encodes the claims as base64 JSON.
func (m *MockAuthAdapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	if m.TokenErr != nil {
		return "", m.TokenErr
	}
	raw, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// ParseToken decodes a token produced by GenerateToken.
func (m *MockAuthAdapter) ParseToken(token string) (*domain.TokenClaims, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	var claims domain.TokenClaims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	return &claims, nil
}
