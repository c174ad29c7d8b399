package driven

import (
	"context"
)

// LLMService generates natural-language answers from an assembled prompt
type LLMService interface {
	// Generate sends a system instruction and user prompt to the model and
	// returns the completion text
	Generate(ctx context.Context, system, prompt string) (string, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the LLM service is available.
	// Called eagerly at startup so a misconfigured model surfaces as a
	// clear startup error instead of a per-request failure.
	Ping(ctx context.Context) error

	// Close releases resources held by the LLM service
	Close() error
}
