package mocks

import (
	"context"
	"fmt"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
)

// MockExtractor is a mock implementation of Extractor for testing.
// By default it treats every payload as plain text.
type MockExtractor struct {
	// ExtractFn overrides the default behavior when set.
	ExtractFn func(data []byte, contentType string) (string, error)

	ExtractCalls int
}

// NewMockExtractor creates a new mock extractor.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// Extract returns the payload as text, or delegates to ExtractFn.
func (m *MockExtractor) Extract(ctx context.Context, data []byte, contentType string) (string, error) {
	m.ExtractCalls++
	if m.ExtractFn != nil {
		return m.ExtractFn(data, contentType)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", domain.ErrExtraction)
	}
	return string(data), nil
}

// Supports reports true for any content type.
func (m *MockExtractor) Supports(contentType string) bool { return true }
