package vectordb

import (
	"testing"

	pb "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcererxstreme/chatbot/internal/repository"
)

func TestToPointStructs(t *testing.T) {
	points := toPointStructs([]repository.KnowledgePoint{{
		ID:         "7d5e4b0c-2f1a-5b9e-8c3d-1a2b3c4d5e6f",
		Category:   "numerology",
		EntityName: "Số 8",
		Title:      "Số 8",
		Text:       "- tính cách: thực tế",
		Vector:     []float32{0.1, 0.2},
	}})

	require.Len(t, points, 1)
	p := points[0]
	assert.Equal(t, "7d5e4b0c-2f1a-5b9e-8c3d-1a2b3c4d5e6f", p.GetId().GetUuid())
	assert.Equal(t, []float32{0.1, 0.2}, p.GetVectors().GetVector().GetData())
	assert.Equal(t, "numerology", p.GetPayload()[fieldCategory].GetStringValue())
	assert.Equal(t, "- tính cách: thực tế", p.GetPayload()[fieldText].GetStringValue())
}

func TestToSnippets(t *testing.T) {
	scored := []*pb.ScoredPoint{
		{
			Id:    &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: "abc"}},
			Score: 0.5,
			Payload: map[string]*pb.Value{
				fieldTitle: stringValue("The Tower"),
				fieldText:  stringValue("Biến cố bất ngờ."),
			},
		},
		{
			Id:    &pb.PointId{PointIdOptions: &pb.PointId_Num{Num: 42}},
			Score: 0.25,
			Payload: map[string]*pb.Value{
				fieldEntityName: stringValue("Ma Kết"),
				fieldText:       stringValue("Kiên trì."),
			},
		},
	}

	got := toSnippets(scored)
	require.Len(t, got, 2)
	assert.Equal(t, "abc", got[0].SourceID)
	assert.Equal(t, "The Tower", got[0].Title)
	assert.InDelta(t, 0.5, got[0].RelevanceScore, 1e-6)
	assert.Equal(t, "42", got[1].SourceID)
	assert.Equal(t, "Ma Kết", got[1].Title, "entity name is the fallback title")
}
