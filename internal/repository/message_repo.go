package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sorcererxstreme/chatbot/internal/model"
)

// MessageRepo stores conversation turns per session.
type MessageRepo interface {
	// LoadHistory returns at most limit of the newest turns, oldest first.
	LoadHistory(ctx context.Context, sessionID string, limit int) ([]model.ConversationTurn, error)
	AppendMessage(ctx context.Context, sessionID string, role model.Role, text string) error
}

type messageRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMessageRepo(db *gorm.DB) MessageRepo {
	return &messageRepo{db: db, now: time.Now}
}

func (r *messageRepo) LoadHistory(ctx context.Context, sessionID string, limit int) ([]model.ConversationTurn, error) {
	if limit <= 0 {
		return nil, nil
	}

	var rows []model.ChatMessageEntity
	// newest first so the limit keeps the tail of the conversation; ID breaks ties
	// between turns written in the same clock tick (v7 IDs are time ordered)
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load history for session: %w", err)
	}

	turns := make([]model.ConversationTurn, len(rows))
	for i, row := range rows {
		turns[len(rows)-1-i] = model.ConversationTurn{
			Role:      row.Role,
			Text:      row.Text,
			Timestamp: row.CreatedAt,
		}
	}
	return turns, nil
}

func (r *messageRepo) AppendMessage(ctx context.Context, sessionID string, role model.Role, text string) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate message id: %w", err)
	}

	row := &model.ChatMessageEntity{
		ID:        id.String(),
		SessionID: sessionID,
		Role:      role,
		Text:      text,
		CreatedAt: r.now(),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}
