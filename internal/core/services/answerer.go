package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
	"github.com/docqa-labs/docqa-core/internal/core/ports/driven"
)

// FallbackAnswer is returned when retrieval produced no grounding context.
// This path never invokes the model.
const FallbackAnswer = "Could not find relevant information in the document to answer the query."

// contextSeparator delimits chunk boundaries inside the assembled context
// so the model can tell one retrieved passage from the next.
const contextSeparator = "\n---\n"

const systemInstruction = "You are a helpful assistant that answers questions about a document using only the provided context."

// promptTemplate constrains the model to the retrieved context. The
// grounding instruction is the contract that keeps answers out of
// hallucination territory; keep its meaning intact when editing.
const promptTemplate = `CONTEXT:
%s

QUESTION:
%s

Answer the question based ONLY on the provided context. If the context doesn't contain the answer, state that you cannot answer based on the provided information. Be concise.`

// Answerer assembles retrieved chunks into a grounding context and
// generates an answer through the configured LLM. Safe for concurrent use;
// it holds no per-request state.
type Answerer struct {
	llm driven.LLMService
}

// NewAnswerer creates an answerer backed by the given model.
// The model's reachability is verified at startup via Ping so a missing or
// misconfigured LLM fails service construction, not individual requests.
func NewAnswerer(ctx context.Context, llm driven.LLMService) (*Answerer, error) {
	if llm == nil {
		return nil, domain.ErrModelUnavailable
	}
	if err := llm.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}
	return &Answerer{llm: llm}, nil
}

// AssembleContext concatenates chunk texts in ranked order (most relevant
// first) with an explicit separator line. No size cap is applied here;
// the prompt budget is Generate's concern.
func (a *Answerer) AssembleContext(chunks []domain.SourceChunk) string {
	if len(chunks) == 0 {
		return ""
	}
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Text
	}
	return strings.Join(parts, contextSeparator)
}

// Generate produces a grounded answer for the question. An empty context
// short-circuits to the fixed fallback without a model call.
func (a *Answerer) Generate(ctx context.Context, contextText, question string) (string, error) {
	if strings.TrimSpace(contextText) == "" {
		return FallbackAnswer, nil
	}

	prompt := fmt.Sprintf(promptTemplate, contextText, question)
	answer, err := a.llm.Generate(ctx, systemInstruction, prompt)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// Model returns the name of the backing model.
func (a *Answerer) Model() string {
	return a.llm.Model()
}
