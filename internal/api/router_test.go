package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcererxstreme/chatbot/internal/api/controller"
	"github.com/sorcererxstreme/chatbot/internal/model"
	"github.com/sorcererxstreme/chatbot/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryHistory struct {
	mu    sync.Mutex
	turns map[string][]model.ConversationTurn
}

func (h *memoryHistory) LoadHistory(_ context.Context, sessionID string, limit int) ([]model.ConversationTurn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	turns := h.turns[sessionID]
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return append([]model.ConversationTurn(nil), turns...), nil
}

func (h *memoryHistory) AppendMessage(_ context.Context, sessionID string, role model.Role, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns[sessionID] = append(h.turns[sessionID], model.ConversationTurn{Role: role, Text: text, Timestamp: time.Now()})
	return nil
}

type staticRetriever struct{}

func (staticRetriever) Retrieve(context.Context, []string) ([]model.KnowledgeSnippet, error) {
	return []model.KnowledgeSnippet{{SourceID: "so-8", Title: "Số 8", Text: "Quyền lực.", RelevanceScore: 0.9}}, nil
}

type funcGenerator func(system, user string) (string, error)

func (f funcGenerator) Generate(_ context.Context, system, user string) (string, error) {
	return f(system, user)
}

func newTestRouter(gen funcGenerator, opts RouterOptions) (*gin.Engine, *memoryHistory) {
	history := &memoryHistory{turns: map[string][]model.ConversationTurn{}}
	svc := service.NewChatService(nil, staticRetriever{}, gen, history, 6, time.UTC)
	return NewRouter(controller.NewChatController(svc), opts), history
}

func post(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestChat_Validation(t *testing.T) {
	r, _ := newTestRouter(func(string, string) (string, error) { return "x", nil }, RouterOptions{})

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"malformed", `{"data":`, controller.MsgInvalidBody},
		{"wrong type", `{"data":{"sessionId":"s1","tarot_cards":"The Sun"}}`, controller.MsgInvalidBody},
		{"no session", `{"data":{"question":"Số chủ đạo của tôi?"}}`, controller.MsgMissingSessionID},
		{"no data", `{}`, controller.MsgMissingSessionID},
		{"no question", `{"data":{"sessionId":"s1","question":"  ","tarot_cards":[]}}`, controller.MsgMissingQuestion},
		{"blank cards", `{"data":{"sessionId":"s1","tarot_cards":["", "  "]}}`, controller.MsgMissingQuestion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(r, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"`+tt.msg+`"}`, w.Body.String())
		})
	}
}

func TestChat_EndToEnd(t *testing.T) {
	calls := 0
	var seen string
	r, history := newTestRouter(func(_, user string) (string, error) {
		calls++
		seen = user
		return "Năm nay là năm của bạn.", nil
	}, RouterOptions{})

	w := post(r, `{"data":{"sessionId":"s1","question":"Tử vi năm nay của tôi thế nào?"},"user_context":{"birth_date":"10/10/1995"}}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sessionId":"s1","reply":"Năm nay là năm của bạn."}`, w.Body.String())
	assert.Equal(t, 1, calls)
	assert.Contains(t, seen, "Quyền lực.")
	assert.NotContains(t, seen, "10/10/1995")

	turns, _ := history.LoadHistory(context.Background(), "s1", 6)
	require.Len(t, turns, 2)
	assert.Equal(t, model.RoleUser, turns[0].Role)
	assert.Equal(t, model.RoleAssistant, turns[1].Role)
}

func TestChat_PartnerNameNeverReachesModel(t *testing.T) {
	var seen string
	r, _ := newTestRouter(func(_, user string) (string, error) {
		seen = user
		return "ok", nil
	}, RouterOptions{})

	w := post(r, `{
		"user_context": {"name": "An", "birth_date": "10/10/1995"},
		"partner_context": {"name": "Bảo Ngọc", "birth_date": "1992-11-29", "birth_place": "Huế"},
		"data": {"sessionId": "s2", "question": "Tôi và người ấy có hợp nhau không?"}
	}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, seen, "Bảo Ngọc")
	assert.NotContains(t, seen, "Huế")
	assert.NotContains(t, seen, "1992-11-29")
	assert.NotContains(t, seen, "29/11/1992")
	assert.Contains(t, seen, "NGƯỜI ẤY")
}

func TestChat_PanicIsGeneric500(t *testing.T) {
	r, _ := newTestRouter(func(string, string) (string, error) {
		panic("nil map write deep inside")
	}, RouterOptions{})

	w := post(r, `{"data":{"sessionId":"s1","question":"Số chủ đạo của tôi là gì?"},"user_context":{"birth_date":"01/01/1990"}}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Lỗi hệ thống"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "nil map")
}

func TestChat_RequiresTokenWhenSecretSet(t *testing.T) {
	r, _ := newTestRouter(func(string, string) (string, error) { return "x", nil }, RouterOptions{JWTSecret: "s3cret"})

	w := post(r, `{"data":{"sessionId":"s1","question":"Hi"}}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(nil, RouterOptions{HealthDetails: func() gin.H { return gin.H{"llm_breaker": "closed"} }})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","llm_breaker":"closed"}`, w.Body.String())
}
