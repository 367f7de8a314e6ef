package llm

import (
	"context"

	"mealprep-planner/internal/shared"
)

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// Settings tune a single generation. Suggestions are short and a little creative.
type Settings struct {
	Temperature float32
	MaxTokens   int32
}

// DefaultSettings is used by the suggestion clients.
var DefaultSettings = Settings{Temperature: 0.7, MaxTokens: 150}
