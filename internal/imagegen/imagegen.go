package imagegen

import "context"

// Generator produces an image from a text prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}
