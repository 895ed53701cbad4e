package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/sorcererxstreme/chatbot/internal/assembler"
	"github.com/sorcererxstreme/chatbot/internal/divination"
	"github.com/sorcererxstreme/chatbot/internal/infrastructure/llm"
	"github.com/sorcererxstreme/chatbot/internal/intent"
	"github.com/sorcererxstreme/chatbot/internal/knowledge"
	"github.com/sorcererxstreme/chatbot/internal/model"
	"github.com/sorcererxstreme/chatbot/internal/prompt"
	"github.com/sorcererxstreme/chatbot/internal/repository"
)

// Fixed replies.
const (
	ApologyReply  = "Vũ trụ đang tắc nghẽn, vui lòng thử lại sau."
	ChitChatReply = "Xin chào! Mình là trợ lý huyền học SorcererXstreme. Bạn có thể hỏi mình về Thần Số Học, Cung Hoàng Đạo, Tử Vi hoặc gửi các lá bài Tarot để được giải nghĩa nhé."
)

var (
	ErrMissingSessionID = errors.New("missing sessionId")
	ErrMissingQuestion  = errors.New("missing question or tarot_cards")
)

// ChatInput is one validated chat request.
type ChatInput struct {
	SessionID  string
	Question   string
	TarotCards []string
	User       *model.Subject
	Partner    *model.Subject
}

type ChatResult struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
}

type ChatService struct {
	assembler    *assembler.Assembler
	retriever    knowledge.Retriever
	generator    llm.Provider
	history      repository.MessageRepo
	historyLimit int
	now          func() time.Time
}

// NewChatService wires the pipeline. horoscope may be nil to skip Tử Vi charts.
func NewChatService(horoscope divination.HoroscopeLookup, retriever knowledge.Retriever, generator llm.Provider, history repository.MessageRepo, historyLimit int, loc *time.Location) *ChatService {
	if historyLimit <= 0 {
		historyLimit = prompt.MaxHistoryTurns
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ChatService{
		assembler:    assembler.New(horoscope),
		retriever:    retriever,
		generator:    generator,
		history:      history,
		historyLimit: historyLimit,
		now:          func() time.Time { return time.Now().In(loc) },
	}
}

// Validate checks the fields the pipeline cannot run without.
func (in ChatInput) Validate() error {
	if strings.TrimSpace(in.SessionID) == "" {
		return ErrMissingSessionID
	}
	if strings.TrimSpace(in.Question) == "" && len(cleanCards(in.TarotCards)) == 0 {
		return ErrMissingQuestion
	}
	return nil
}

// cleanCards trims card names and drops the blank ones.
func cleanCards(cards []string) []string {
	return lo.Compact(lo.Map(cards, func(c string, _ int) string {
		return strings.TrimSpace(c)
	}))
}

// Reply runs one request through the pipeline. Only validation errors are returned;
// every collaborator failure degrades to a fallback.
func (s *ChatService) Reply(ctx context.Context, in ChatInput) (*ChatResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.TarotCards = cleanCards(in.TarotCards)
	log := slog.With("session_id", in.SessionID)

	// 1. decide whether there is anything to compute
	it := intent.Extract(in.Question, in.TarotCards)
	if !it.RequiresComputation {
		log.Info("chit-chat short-circuit")
		s.appendTurn(ctx, log, in.SessionID, model.RoleUser, in.Question)
		s.appendTurn(ctx, log, in.SessionID, model.RoleAssistant, ChitChatReply)
		return &ChatResult{SessionID: in.SessionID, Reply: ChitChatReply}, nil
	}

	// 2. history before the current turn is stored
	history, err := s.history.LoadHistory(ctx, in.SessionID, s.historyLimit)
	if err != nil {
		log.Error("load history failed, continuing without it", "err", err)
		history = nil
	}
	s.appendTurn(ctx, log, in.SessionID, model.RoleUser, userTurnText(in))

	// 3. calculators and redaction
	now := s.now()
	assembled := s.assembler.Assemble(ctx, it, in.User, in.Partner, now)

	// 4. knowledge
	var snippets []model.KnowledgeSnippet
	if len(assembled.Keywords) > 0 {
		found, err := s.retriever.Retrieve(ctx, assembled.Keywords)
		if err != nil {
			log.Error("knowledge retrieval failed, continuing without it", "err", err)
		} else {
			snippets = assembler.FilterSnippets(found)
		}
	}

	// 5. generation
	bundle := prompt.Build(now, assembled.RedactedContext, assembled.Keywords, snippets, history, in.Question)
	reply, err := s.generator.Generate(ctx, bundle.SystemInstruction, bundle.UserInstruction)
	if err != nil {
		log.Error("generation failed, replying with apology", "err", err)
		reply = ApologyReply
	}

	// 6. persist
	s.appendTurn(ctx, log, in.SessionID, model.RoleAssistant, reply)

	log.Info("chat reply sent", "keywords", len(assembled.Keywords), "snippets", len(snippets), "history", len(history))
	return &ChatResult{SessionID: in.SessionID, Reply: reply}, nil
}

func (s *ChatService) appendTurn(ctx context.Context, log *slog.Logger, sessionID string, role model.Role, text string) {
	if err := s.history.AppendMessage(ctx, sessionID, role, text); err != nil {
		log.Error("append message failed", "role", role, "err", err)
	}
}

// userTurnText is what gets stored for the user's side of the conversation.
func userTurnText(in ChatInput) string {
	q := strings.TrimSpace(in.Question)
	if len(in.TarotCards) == 0 {
		return q
	}
	cards := "[Tarot: " + strings.Join(in.TarotCards, ", ") + "]"
	if q == "" {
		return cards
	}
	return q + " " + cards
}
