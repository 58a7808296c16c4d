package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the provider answered without any usable
// natural-language content. Callers fall back to placeholder diary text.
var ErrEmptyResponse = errors.New("llm: empty response")

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client abstracts a text-generation provider.
// GenerateVision sends an image alongside the prompt; providers without
// vision support must return an error rather than silently ignoring the image.
type Client interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (Response, error)
	GenerateVision(ctx context.Context, systemPrompt, userPrompt string, image []byte, mimeType string) (Response, error)
}
