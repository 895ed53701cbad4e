package repository

import (
	"context"

	"github.com/sorcererxstreme/chatbot/internal/model"
)

// KnowledgePoint is one embedded passage as stored in the vector index.
type KnowledgePoint struct {
	ID         string // stable, derived from category + entity name
	Category   string
	EntityName string
	Title      string
	Text       string
	Vector     []float32
}

// KnowledgeRepo is the vector store holding the reference passages.
type KnowledgeRepo interface {
	Upsert(ctx context.Context, points []KnowledgePoint) error
	Search(ctx context.Context, queryVector []float32, limit int) ([]model.KnowledgeSnippet, error)
}
