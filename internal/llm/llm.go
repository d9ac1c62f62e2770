package llm

import "context"

// Completer issues a single-shot prompt and returns the raw completion text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
