// Package knowledge fetches and ingests the reference passages used to ground answers.
package knowledge

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/sorcererxstreme/chatbot/internal/infrastructure/embedding"
	"github.com/sorcererxstreme/chatbot/internal/model"
	"github.com/sorcererxstreme/chatbot/internal/repository"
)

// Retriever looks passages up by keyword.
type Retriever interface {
	Retrieve(ctx context.Context, keywords []string) ([]model.KnowledgeSnippet, error)
}

// VectorRetriever embeds every keyword and runs one similarity search per keyword.
type VectorRetriever struct {
	embedder embedding.Provider
	store    repository.KnowledgeRepo
	topK     int
}

func NewVectorRetriever(embedder embedding.Provider, store repository.KnowledgeRepo, topK int) *VectorRetriever {
	if topK <= 0 {
		topK = 3
	}
	return &VectorRetriever{embedder: embedder, store: store, topK: topK}
}

// Retrieve returns the union of hits, one per source, best score first.
func (r *VectorRetriever) Retrieve(ctx context.Context, keywords []string) ([]model.KnowledgeSnippet, error) {
	keywords = lo.Uniq(lo.Compact(keywords))
	if len(keywords) == 0 {
		return nil, nil
	}

	// 1. one embedding call for all keywords
	vectors, err := r.embedder.GetVectors(ctx, keywords)
	if err != nil {
		return nil, fmt.Errorf("embed keywords: %w", err)
	}

	// 2. searches are independent
	results := make([][]model.KnowledgeSnippet, len(vectors))
	g, gctx := errgroup.WithContext(ctx)
	for i, vec := range vectors {
		g.Go(func() error {
			hits, err := r.store.Search(gctx, vec, r.topK)
			if err != nil {
				return fmt.Errorf("search %q: %w", keywords[i], err)
			}
			results[i] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 3. merge, keeping the best score per source
	best := make(map[string]model.KnowledgeSnippet)
	for _, hit := range lo.Flatten(results) {
		if cur, ok := best[hit.SourceID]; !ok || hit.RelevanceScore > cur.RelevanceScore {
			best[hit.SourceID] = hit
		}
	}
	merged := lo.Values(best)
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].RelevanceScore != merged[j].RelevanceScore {
			return merged[i].RelevanceScore > merged[j].RelevanceScore
		}
		return merged[i].SourceID < merged[j].SourceID
	})
	return merged, nil
}
