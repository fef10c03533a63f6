package ports

import "context"

type GenerateOptions struct {
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// Oracle is the language-model capability behind agent decisions and dream
// synthesis. Implementations may be slow and may fail; callers contain both.
type Oracle interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}
