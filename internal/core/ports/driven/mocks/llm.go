package mocks

import (
	"context"
	"sync"
)

// MockLLMService is a mock implementation of LLMService for testing.
// It records every Generate call and returns a configurable canned answer.
type MockLLMService struct {
	mu     sync.Mutex
	answer string
	model  string

	GenerateCalls int
	LastSystem    string
	LastPrompt    string

	GenerateErr error
	PingErr     error
}

// NewMockLLMService creates a new mock LLM service.
func NewMockLLMService() *MockLLMService {
	return &MockLLMService{
		answer: "mock answer",
		model:  "mock-llm",
	}
}

// Generate returns the canned answer and records the call.
func (m *MockLLMService) Generate(ctx context.Context, system, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GenerateErr != nil {
		return "", m.GenerateErr
	}
	m.GenerateCalls++
	m.LastSystem = system
	m.LastPrompt = prompt
	return m.answer, nil
}

func (m *MockLLMService) Model() string { return m.model }

func (m *MockLLMService) Ping(ctx context.Context) error { return m.PingErr }

func (m *MockLLMService) Close() error { return nil }

// Helper methods for testing

func (m *MockLLMService) SetAnswer(answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answer = answer
}
