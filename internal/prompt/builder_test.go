package prompt

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcererxstreme/chatbot/internal/model"
)

var now = time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

func TestSystem(t *testing.T) {
	s := System(now)
	assert.Contains(t, s, "Hôm nay là 15/10/2026.")
	for i := 1; i <= 5; i++ {
		assert.Contains(t, s, fmt.Sprintf("\n%d. ", i))
	}
	assert.Contains(t, s, "Người ấy")
}

func TestBuild_SectionOrder(t *testing.T) {
	snippets := []model.KnowledgeSnippet{{SourceID: "n8", Title: "Số 8", Text: "Người số 8 thực tế.", RelevanceScore: 0.8}}
	history := []model.ConversationTurn{
		{Role: model.RoleUser, Text: "Chào"},
		{Role: model.RoleAssistant, Text: "Chào bạn"},
	}

	b := Build(now, "Thời điểm hiện tại: 15/10/2026", []string{"Số 8"}, snippets, history, "Tôi hợp nghề gì?")

	u := b.UserInstruction
	iCtx := strings.Index(u, "DỮ LIỆU TÍNH TOÁN:")
	iKnow := strings.Index(u, "THÔNG TIN BỔ TRỢ TỪ SÁCH (tra cứu theo: Số 8):")
	iHist := strings.Index(u, "LỊCH SỬ TRÒ CHUYỆN GẦN ĐÂY:")
	iQ := strings.Index(u, "CÂU HỎI CỦA NGƯỜI DÙNG:")
	require.True(t, iCtx >= 0 && iKnow > iCtx && iHist > iKnow && iQ > iHist, u)

	assert.Contains(t, u, "- [Số 8] Người số 8 thực tế.")
	assert.Contains(t, u, "Người dùng: Chào\nTrợ lý: Chào bạn\n")
	assert.Contains(t, u, `"Tôi hợp nghề gì?"`)
	assert.NotContains(t, u, NoReferenceMaterial)
	assert.Equal(t, System(now), b.SystemInstruction)
}

func TestBuild_NoSnippetsPlaceholder(t *testing.T) {
	b := Build(now, "ctx", nil, nil, nil, "Hôm nay thế nào?")
	assert.Contains(t, b.UserInstruction, "THÔNG TIN BỔ TRỢ TỪ SÁCH:\n"+NoReferenceMaterial)
	assert.Contains(t, b.UserInstruction, "(Chưa có.)")
}

func TestBuild_HistoryIsCapped(t *testing.T) {
	var history []model.ConversationTurn
	for i := 0; i < 10; i++ {
		history = append(history, model.ConversationTurn{Role: model.RoleUser, Text: fmt.Sprintf("turn-%d", i)})
	}

	u := Build(now, "ctx", nil, nil, history, "q").UserInstruction

	for i := 0; i < 4; i++ {
		assert.NotContains(t, u, fmt.Sprintf("turn-%d\n", i))
	}
	for i := 4; i < 10; i++ {
		assert.Contains(t, u, fmt.Sprintf("turn-%d\n", i))
	}
	assert.Less(t, strings.Index(u, "turn-4"), strings.Index(u, "turn-9"), "chronological order")
}

func TestBuild_TarotOnly(t *testing.T) {
	u := Build(now, "ctx", []string{"The Sun"}, nil, nil, "  ").UserInstruction
	assert.Contains(t, u, `"`+DefaultTarotQuestion+`"`)
}
