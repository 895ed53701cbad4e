package knowledge

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/sorcererxstreme/chatbot/internal/infrastructure/embedding"
	"github.com/sorcererxstreme/chatbot/internal/repository"
)

// DefaultBatchSize is how many records are embedded and upserted together.
const DefaultBatchSize = 32

// Record is one line of the knowledge JSONL file.
type Record struct {
	Category   string         `json:"category"`
	EntityName string         `json:"entity_name"`
	Keywords   []string       `json:"keywords"`
	Contexts   map[string]any `json:"contexts"`
}

// FlattenContexts renders the context map as "- key: value" lines in key order. List
// values are joined with ", ".
func FlattenContexts(contexts map[string]any) string {
	keys := lo.Keys(contexts)
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("- %s: %s", k, flattenValue(contexts[k])))
	}
	return strings.Join(lines, "\n")
}

func flattenValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		return strings.Join(lo.Map(val, func(item any, _ int) string { return flattenValue(item) }), ", ")
	case []string:
		return strings.Join(val, ", ")
	case map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}

// PointID is stable across runs so re-ingesting a file overwrites instead of duplicating.
func PointID(category, entityName string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("sorcerer:"+category+"/"+entityName)).String()
}

// Document is the text that gets embedded for a record.
func Document(r Record) string {
	var sb strings.Builder
	sb.WriteString(r.EntityName)
	if len(r.Keywords) > 0 {
		fmt.Fprintf(&sb, " (%s)", strings.Join(r.Keywords, ", "))
	}
	if body := FlattenContexts(r.Contexts); body != "" {
		sb.WriteString("\n")
		sb.WriteString(body)
	}
	return sb.String()
}

// IngestStats summarizes one ingestion run.
type IngestStats struct {
	Read    int
	Skipped int
	Stored  int
}

type Ingester struct {
	embedder  embedding.Provider
	store     repository.KnowledgeRepo
	batchSize int
}

func NewIngester(embedder embedding.Provider, store repository.KnowledgeRepo, batchSize int) *Ingester {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Ingester{embedder: embedder, store: store, batchSize: batchSize}
}

// Ingest reads JSONL records from r. Blank and malformed lines and records without an
// entity name are skipped and logged; embedding or store failures abort the run.
func (in *Ingester) Ingest(ctx context.Context, r io.Reader) (IngestStats, error) {
	var stats IngestStats
	var batch []Record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		stats.Read++

		var rec Record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			slog.Warn("skip malformed knowledge line", "line", line, "err", err)
			stats.Skipped++
			continue
		}
		if strings.TrimSpace(rec.EntityName) == "" {
			slog.Warn("skip knowledge record without entity_name", "line", line)
			stats.Skipped++
			continue
		}

		batch = append(batch, rec)
		if len(batch) >= in.batchSize {
			if err := in.flush(ctx, batch); err != nil {
				return stats, err
			}
			stats.Stored += len(batch)
			batch = batch[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read knowledge file: %w", err)
	}

	if len(batch) > 0 {
		if err := in.flush(ctx, batch); err != nil {
			return stats, err
		}
		stats.Stored += len(batch)
	}
	return stats, nil
}

func (in *Ingester) flush(ctx context.Context, batch []Record) error {
	docs := lo.Map(batch, func(r Record, _ int) string { return Document(r) })

	vectors, err := in.embedder.GetVectors(ctx, docs)
	if err != nil {
		return fmt.Errorf("embed %d records: %w", len(batch), err)
	}

	points := make([]repository.KnowledgePoint, len(batch))
	for i, rec := range batch {
		points[i] = repository.KnowledgePoint{
			ID:         PointID(rec.Category, rec.EntityName),
			Category:   rec.Category,
			EntityName: rec.EntityName,
			Title:      rec.EntityName,
			Text:       FlattenContexts(rec.Contexts),
			Vector:     vectors[i],
		}
	}
	if err := in.store.Upsert(ctx, points); err != nil {
		return fmt.Errorf("store %d records: %w", len(batch), err)
	}

	slog.Info("ingested knowledge batch", "count", len(batch))
	return nil
}
