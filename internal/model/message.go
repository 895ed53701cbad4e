package model

import (
	"time"
)

// Role of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessageEntity maps the chat_messages table.
type ChatMessageEntity struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SessionID string    `gorm:"type:varchar(128);index:idx_session_created,priority:1;not null" json:"session_id"`
	Role      Role      `gorm:"type:varchar(16);not null" json:"role"`
	Text      string    `gorm:"type:text" json:"text"`
	CreatedAt time.Time `gorm:"index:idx_session_created,priority:2" json:"created_at"`
}

// TableName pins the table name.
func (ChatMessageEntity) TableName() string {
	return "chat_messages"
}

// ConversationTurn is a history entry handed to the prompt builder.
type ConversationTurn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
