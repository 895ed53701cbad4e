package llm

import "context"

// Provider generates a single completion for a system/user instruction pair.
type Provider interface {
	Generate(ctx context.Context, systemInstruction, userInstruction string) (string, error)
}
