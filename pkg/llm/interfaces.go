// Package llm provides the chat-completion clients used by the schema
// redesign pipeline.
package llm

import (
	"context"
)

// Client is the interface the pipeline depends on. Use it for dependency
// injection to enable mocking in tests.
type Client interface {
	// GenerateResponse generates a chat completion for the given prompt.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// GetModel returns the configured model name.
	GetModel() string
}

// Compile-time interface checks.
var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*AnthropicClient)(nil)
	_ Client = (*MockClient)(nil)
)
