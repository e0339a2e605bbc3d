package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taskchat/taskchat/cmd/server/internal/store"
	"github.com/taskchat/taskchat/pkg/metrics"
)

// ErrConversationNotFound is returned when a conversation is missing or
// owned by another user. Callers cannot tell the two cases apart.
var ErrConversationNotFound = errors.New("conversation not found")

// ChatReply is the result of one chat turn. ConversationID is always the
// resolved conversation, so a caller that omitted it learns the newly
// created one.
type ChatReply struct {
	ConversationID uint     `json:"conversation_id"`
	Response       string   `json:"response"`
	Actions        []string `json:"actions"`
}

// Session orchestrates one chat turn: it ties the message to a
// conversation, records both sides of the exchange, and runs the
// parse/execute pipeline in between.
type Session struct {
	convs    *store.ConversationStore
	parser   *Parser
	executor *Executor
	log      *slog.Logger
}

// NewSession creates a session orchestrator.
func NewSession(convs *store.ConversationStore, parser *Parser, executor *Executor, log *slog.Logger) *Session {
	return &Session{convs: convs, parser: parser, executor: executor, log: log}
}

// HandleMessage processes one inbound message for owner. A nil
// conversationID lazily creates a new conversation; a non-nil one must
// exist and belong to owner.
func (s *Session) HandleMessage(ctx context.Context, owner string, conversationID *uint, text string) (*ChatReply, error) {
	conv, err := s.resolveConversation(ctx, owner, conversationID)
	if err != nil {
		return nil, err
	}

	// the user's turn is recorded before intent resolution so the
	// transcript is complete even if parsing degrades
	if _, err := s.convs.AppendMessage(ctx, owner, conv.ID, store.RoleUser, text); err != nil {
		metrics.RecordChatMessage(string(KindUnknown), "error")
		return nil, fmt.Errorf("record user message: %w", err)
	}

	cmd := s.parser.Parse(ctx, text)
	reply, actions := s.executor.Execute(ctx, owner, cmd)

	if _, err := s.convs.AppendMessage(ctx, owner, conv.ID, store.RoleAssistant, reply); err != nil {
		metrics.RecordChatMessage(string(cmd.Kind), "error")
		return nil, fmt.Errorf("record assistant message: %w", err)
	}

	s.log.Info("chat turn handled",
		"owner", owner,
		"conversation_id", conv.ID,
		"intent", string(cmd.Kind),
		"actions", len(actions),
	)
	metrics.RecordChatMessage(string(cmd.Kind), "ok")

	return &ChatReply{
		ConversationID: conv.ID,
		Response:       reply,
		Actions:        actions,
	}, nil
}

// Transcript returns the ordered messages of one of owner's conversations.
func (s *Session) Transcript(ctx context.Context, owner string, conversationID uint) ([]store.Message, error) {
	conv, err := s.resolveConversation(ctx, owner, &conversationID)
	if err != nil {
		return nil, err
	}
	return s.convs.ListMessages(ctx, conv.ID)
}

func (s *Session) resolveConversation(ctx context.Context, owner string, conversationID *uint) (*store.Conversation, error) {
	if conversationID == nil {
		conv, err := s.convs.Create(ctx, owner)
		if err != nil {
			return nil, fmt.Errorf("create conversation: %w", err)
		}
		return conv, nil
	}

	conv, err := s.convs.Get(ctx, *conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("resolve conversation: %w", err)
	}
	if conv.OwnerID != owner {
		return nil, ErrConversationNotFound
	}
	return conv, nil
}
