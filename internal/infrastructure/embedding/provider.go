package embedding

import "context"

// Provider turns text into vectors.
type Provider interface {
	// GetVectors embeds texts in one call; the result is index-aligned with texts.
	GetVectors(ctx context.Context, texts []string) ([][]float32, error)
}
