package store

import (
	"time"
)

// Message roles. Messages are append-only; a conversation transcript is its
// messages ordered by creation time.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Task is a single todo item owned by exactly one user.
// CompletedAt is non-nil iff Completed is true.
type Task struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	OwnerID     string     `gorm:"size:64;index;not null" json:"owner_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"size:1000" json:"description"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TableName returns the table name for Task.
func (Task) TableName() string {
	return "tasks"
}

// Conversation groups the messages of one chat thread. Conversations are
// created lazily on the first message and never deleted.
type Conversation struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OwnerID   string    `gorm:"size:64;index;not null" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// Message is one turn of a conversation. Immutable once created.
type Message struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	OwnerID        string    `gorm:"size:64;index;not null" json:"owner_id"`
	ConversationID uint      `gorm:"index;not null" json:"conversation_id"`
	Role           string    `gorm:"size:16;not null" json:"role"`
	Content        string    `gorm:"size:10000;not null" json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName returns the table name for Message.
func (Message) TableName() string {
	return "messages"
}
