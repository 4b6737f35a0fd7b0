package llm

import (
	"context"
	"errors"
)

// DefaultTemperature is the sampling temperature for generation routes.
const DefaultTemperature float32 = 0.7

// ErrEmptyCompletion means the provider answered without usable text.
var ErrEmptyCompletion = errors.New("empty completion")

// Request is a single-turn completion request. Zero MaxTokens and Temperature
// leave the provider defaults in place.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Completer abstracts text-completion providers.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}
