package vectordb

import (
	"context"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"

	"github.com/sorcererxstreme/chatbot/internal/model"
	"github.com/sorcererxstreme/chatbot/internal/repository"
)

// payload keys
const (
	fieldCategory   = "category"
	fieldEntityName = "entity_name"
	fieldTitle      = "title"
	fieldText       = "text"
)

type QdrantRepository struct {
	client *QdrantClient
}

func NewQdrantRepository(client *QdrantClient) repository.KnowledgeRepo {
	return &QdrantRepository{client: client}
}

func (r *QdrantRepository) Upsert(ctx context.Context, points []repository.KnowledgePoint) error {
	if len(points) == 0 {
		return nil
	}

	wait := true
	_, err := r.client.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.client.collection,
		Points:         toPointStructs(points),
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert %d points: %w", len(points), err)
	}
	return nil
}

func (r *QdrantRepository) Search(ctx context.Context, queryVector []float32, limit int) ([]model.KnowledgeSnippet, error) {
	res, err := r.client.points.Search(ctx, &pb.SearchPoints{
		CollectionName: r.client.collection,
		Vector:         queryVector,
		Limit:          uint64(limit),
		// without this only ids and scores come back
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search: %w", err)
	}
	return toSnippets(res.GetResult()), nil
}

func toPointStructs(points []repository.KnowledgePoint) []*pb.PointStruct {
	out := make([]*pb.PointStruct, 0, len(points))
	for _, p := range points {
		out = append(out, &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: p.ID},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: p.Vector},
				},
			},
			Payload: map[string]*pb.Value{
				fieldCategory:   stringValue(p.Category),
				fieldEntityName: stringValue(p.EntityName),
				fieldTitle:      stringValue(p.Title),
				fieldText:       stringValue(p.Text),
			},
		})
	}
	return out
}

func toSnippets(points []*pb.ScoredPoint) []model.KnowledgeSnippet {
	out := make([]model.KnowledgeSnippet, 0, len(points))
	for _, p := range points {
		payload := p.GetPayload()
		title := payload[fieldTitle].GetStringValue()
		if title == "" {
			title = payload[fieldEntityName].GetStringValue()
		}
		out = append(out, model.KnowledgeSnippet{
			SourceID:       pointID(p.GetId()),
			RelevanceScore: float64(p.GetScore()),
			Title:          title,
			Text:           payload[fieldText].GetStringValue(),
		})
	}
	return out
}

func pointID(id *pb.PointId) string {
	if u := id.GetUuid(); u != "" {
		return u
	}
	return fmt.Sprintf("%d", id.GetNum())
}

func stringValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}
