package ai

import (
	"fmt"
	"strings"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driven"
)

// Supported AI providers
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// ProviderSettings holds the connection parameters for one AI provider.
type ProviderSettings struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

// NewEmbeddingService creates an embedding service for the configured
// provider.
func NewEmbeddingService(settings ProviderSettings) (driven.EmbeddingService, error) {
	switch strings.ToLower(settings.Provider) {
	case ProviderOpenAI:
		return NewOpenAIEmbedding(settings.APIKey, settings.Model, settings.BaseURL)
	case ProviderOllama:
		return NewOllamaEmbedding(settings.BaseURL, settings.Model)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
}

// NewLLMService creates an LLM service for the configured provider.
func NewLLMService(settings ProviderSettings) (driven.LLMService, error) {
	switch strings.ToLower(settings.Provider) {
	case ProviderOpenAI:
		return NewOpenAILLM(settings.APIKey, settings.Model, settings.BaseURL)
	case ProviderOllama:
		return NewOllamaLLM(settings.BaseURL, settings.Model)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
}
