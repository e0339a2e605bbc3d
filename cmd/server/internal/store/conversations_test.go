package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConvStore(t *testing.T) *ConversationStore {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err, "failed to open test database")
	return NewConversationStore(db)
}

func TestConversationStore_CreateAndGet(t *testing.T) {
	s := setupConvStore(t)
	ctx := context.Background()

	conv, err := s.Create(ctx, "alice")
	require.NoError(t, err)
	assert.NotZero(t, conv.ID)
	assert.Equal(t, "alice", conv.OwnerID)

	got, err := s.Get(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, got.ID)

	_, err = s.Get(ctx, conv.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConversationStore_TranscriptOrder(t *testing.T) {
	s := setupConvStore(t)
	ctx := context.Background()

	conv, err := s.Create(ctx, "alice")
	require.NoError(t, err)

	turns := []struct {
		role    string
		content string
	}{
		{RoleUser, "add a task to buy milk"},
		{RoleAssistant, "Task added"},
		{RoleUser, "show me my tasks"},
		{RoleAssistant, "1 task pending"},
	}
	for _, turn := range turns {
		_, err := s.AppendMessage(ctx, "alice", conv.ID, turn.role, turn.content)
		require.NoError(t, err)
	}

	msgs, err := s.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, len(turns))
	for i, turn := range turns {
		assert.Equal(t, turn.role, msgs[i].Role)
		assert.Equal(t, turn.content, msgs[i].Content)
	}
}

func TestConversationStore_AppendTouchesConversation(t *testing.T) {
	s := setupConvStore(t)
	ctx := context.Background()

	conv, err := s.Create(ctx, "alice")
	require.NoError(t, err)

	_, err = s.AppendMessage(ctx, "alice", conv.ID, RoleUser, "hello")
	require.NoError(t, err)

	got, err := s.Get(ctx, conv.ID)
	require.NoError(t, err)
	assert.False(t, got.UpdatedAt.Before(conv.UpdatedAt))
}

func TestConversationStore_MessagesScopedToConversation(t *testing.T) {
	s := setupConvStore(t)
	ctx := context.Background()

	a, err := s.Create(ctx, "alice")
	require.NoError(t, err)
	b, err := s.Create(ctx, "alice")
	require.NoError(t, err)

	_, err = s.AppendMessage(ctx, "alice", a.ID, RoleUser, "in a")
	require.NoError(t, err)
	_, err = s.AppendMessage(ctx, "alice", b.ID, RoleUser, "in b")
	require.NoError(t, err)

	msgs, err := s.ListMessages(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "in a", msgs[0].Content)
}
