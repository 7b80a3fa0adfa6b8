// Package llm provides the cloud model clients used for strategic advice.
// Providers are hand-rolled over net/http so retry, rate spacing, and
// response handling stay inspectable.
package llm

import (
	"context"
	"errors"
)

// ErrNoAPIKey indicates the client was constructed without credentials.
var ErrNoAPIKey = errors.New("API key not configured")

// LLMClient defines the interface for LLM providers.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
