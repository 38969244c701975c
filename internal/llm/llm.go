package llm

import (
	"context"
	"errors"
)

// Client abstracts the generative-model provider. Single-turn, no
// conversation state, no streaming; retry policy belongs to implementations.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation for environments without a
// configured provider (tests, local dev without an API key).
type PlaceholderClient struct{}

// Generate returns ErrNotImplemented.
func (PlaceholderClient) Generate(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotImplemented
}
