package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ConversationStore persists conversations and their append-only message
// log.
type ConversationStore struct {
	db *gorm.DB
}

// NewConversationStore creates a conversation store on db.
func NewConversationStore(db *gorm.DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// Create starts a new conversation for owner.
func (s *ConversationStore) Create(ctx context.Context, owner string) (*Conversation, error) {
	conv := &Conversation{OwnerID: owner}
	if err := s.db.WithContext(ctx).Create(conv).Error; err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

// Get returns the conversation with the given id, or ErrNotFound. Owner
// checks happen at the session layer so that the same lookup serves both
// access control and transcript reads.
func (s *ConversationStore) Get(ctx context.Context, id uint) (*Conversation, error) {
	var conv Conversation
	err := s.db.WithContext(ctx).First(&conv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return &conv, nil
}

// AppendMessage adds one immutable turn to a conversation and touches the
// conversation's UpdatedAt, both inside one transaction.
func (s *ConversationStore) AppendMessage(ctx context.Context, owner string, conversationID uint, role, content string) (*Message, error) {
	msg := &Message{
		OwnerID:        owner,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return fmt.Errorf("create message: %w", err)
		}
		touch := tx.Model(&Conversation{}).Where("id = ?", conversationID).
			Update("updated_at", time.Now().UTC())
		if touch.Error != nil {
			return fmt.Errorf("touch conversation: %w", touch.Error)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns the transcript of a conversation: all messages in
// creation order, ids breaking timestamp ties.
func (s *ConversationStore) ListMessages(ctx context.Context, conversationID uint) ([]Message, error) {
	var msgs []Message
	err := s.db.WithContext(ctx).Where("conversation_id = ?", conversationID).
		Order("created_at asc, id asc").Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}
