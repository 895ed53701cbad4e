package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sorcererxstreme/chatbot/internal/api/response"
	"github.com/sorcererxstreme/chatbot/internal/divination"
	"github.com/sorcererxstreme/chatbot/internal/model"
	"github.com/sorcererxstreme/chatbot/internal/service"
)

// Client facing validation messages.
const (
	MsgInvalidBody      = "Invalid JSON Body"
	MsgMissingSessionID = "Missing sessionId"
	MsgMissingQuestion  = "Missing question or tarot_cards"
)

type ChatController struct {
	service *service.ChatService
}

func NewChatController(s *service.ChatService) *ChatController {
	return &ChatController{service: s}
}

// SubjectRequest is a person as the client sends it. Everything is optional and kept
// as text until converted.
type SubjectRequest struct {
	Name       string `json:"name"`
	BirthDate  string `json:"birth_date"`
	BirthTime  string `json:"birth_time"`
	Gender     string `json:"gender"`
	BirthPlace string `json:"birth_place"`
}

type ChatData struct {
	SessionID  string   `json:"sessionId"`
	Question   string   `json:"question"`
	TarotCards []string `json:"tarot_cards"`
}

type ChatRequest struct {
	UserContext    *SubjectRequest `json:"user_context"`
	PartnerContext *SubjectRequest `json:"partner_context"`
	Data           ChatData        `json:"data"`
}

// Chat answers one message.
// @Summary Chat
// @Description Answers one question or Tarot spread using the user's and partner's birth data
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChatRequest true "question, tarot_cards and birth contexts"
// @Success 200 {object} service.ChatResult
// @Failure 400 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /chat [post]
func (ctrl *ChatController) Chat(c *gin.Context) {
	// 1. parse
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("invalid chat body", "err", err)
		response.Error(c, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	// 2. convert at the boundary
	in := service.ChatInput{
		SessionID:  strings.TrimSpace(req.Data.SessionID),
		Question:   req.Data.Question,
		TarotCards: req.Data.TarotCards,
		User:       toSubject(req.UserContext),
		Partner:    toSubject(req.PartnerContext),
	}

	// 3. run
	res, err := ctrl.service.Reply(c.Request.Context(), in)
	switch {
	case errors.Is(err, service.ErrMissingSessionID):
		response.Error(c, http.StatusBadRequest, MsgMissingSessionID)
		return
	case errors.Is(err, service.ErrMissingQuestion):
		response.Error(c, http.StatusBadRequest, MsgMissingQuestion)
		return
	case err != nil:
		slog.Error("chat failed", "session_id", in.SessionID, "err", err)
		response.Error(c, http.StatusInternalServerError, response.GenericError)
		return
	}

	response.Success(c, res)
}

// toSubject keeps the raw strings so they can be scrubbed from the prompt even when
// they fail to parse.
func toSubject(r *SubjectRequest) *model.Subject {
	if r == nil || *r == (SubjectRequest{}) {
		return nil
	}

	s := &model.Subject{
		Name:         strings.TrimSpace(r.Name),
		Gender:       model.ParseGender(r.Gender),
		BirthPlace:   strings.TrimSpace(r.BirthPlace),
		RawBirthDate: strings.TrimSpace(r.BirthDate),
		RawBirthTime: strings.TrimSpace(r.BirthTime),
	}
	if d, err := divination.ParseDate(s.RawBirthDate); err == nil {
		s.BirthDate = &d
	}
	if t, err := divination.ParseTimeOfDay(s.RawBirthTime); err == nil {
		s.BirthTime = &t
	}
	return s
}
