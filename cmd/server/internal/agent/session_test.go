package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskchat/taskchat/cmd/server/internal/store"
)

func setupSession(t *testing.T, gen Generator) (*Session, *store.TaskStore, *store.ConversationStore) {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)

	tasks := store.NewTaskStore(db)
	convs := store.NewConversationStore(db)

	parser := NewParser(gen, 100*time.Millisecond, discardLogger())
	executor := NewExecutor(tasks, discardLogger())
	return NewSession(convs, parser, executor, discardLogger()), tasks, convs
}

func TestSession_LazyConversationCreation(t *testing.T) {
	s, tasks, convs := setupSession(t, nil)
	ctx := context.Background()

	reply, err := s.HandleMessage(ctx, "alice", nil, "add a task to buy groceries")
	require.NoError(t, err)
	assert.NotZero(t, reply.ConversationID, "caller that omitted the id learns the new one")
	assert.Contains(t, reply.Response, "Task added successfully")
	assert.Equal(t, []string{"add_task"}, reply.Actions)

	created, err := tasks.List(ctx, "alice", store.StatusPending)
	require.NoError(t, err)
	assert.Len(t, created, 1)

	// both turns are on the transcript, user first
	msgs, err := convs.ListMessages(ctx, reply.ConversationID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, store.RoleUser, msgs[0].Role)
	assert.Equal(t, "add a task to buy groceries", msgs[0].Content)
	assert.Equal(t, store.RoleAssistant, msgs[1].Role)
	assert.Equal(t, reply.Response, msgs[1].Content)
}

func TestSession_ReusesExistingConversation(t *testing.T) {
	s, _, convs := setupSession(t, nil)
	ctx := context.Background()

	first, err := s.HandleMessage(ctx, "alice", nil, "add a task to buy milk")
	require.NoError(t, err)

	second, err := s.HandleMessage(ctx, "alice", &first.ConversationID, "show me my tasks")
	require.NoError(t, err)
	assert.Equal(t, first.ConversationID, second.ConversationID)

	msgs, err := convs.ListMessages(ctx, first.ConversationID)
	require.NoError(t, err)
	assert.Len(t, msgs, 4)
}

func TestSession_RejectsForeignConversation(t *testing.T) {
	s, _, _ := setupSession(t, nil)
	ctx := context.Background()

	alice, err := s.HandleMessage(ctx, "alice", nil, "add a task to buy milk")
	require.NoError(t, err)

	_, err = s.HandleMessage(ctx, "bob", &alice.ConversationID, "show me my tasks")
	assert.ErrorIs(t, err, ErrConversationNotFound)

	missing := alice.ConversationID + 50
	_, err = s.HandleMessage(ctx, "alice", &missing, "show me my tasks")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestSession_UnknownMessageMutatesNothing(t *testing.T) {
	s, tasks, _ := setupSession(t, nil)
	ctx := context.Background()

	reply, err := s.HandleMessage(ctx, "alice", nil, "hello")
	require.NoError(t, err)
	assert.Contains(t, reply.Response, "I can help you manage your tasks")
	assert.Empty(t, reply.Actions)

	all, err := tasks.List(ctx, "alice", store.StatusAll)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSession_ListWithNoTasks(t *testing.T) {
	s, _, _ := setupSession(t, nil)
	ctx := context.Background()

	reply, err := s.HandleMessage(ctx, "alice", nil, "show me my tasks")
	require.NoError(t, err)
	assert.Contains(t, reply.Response, "don't have any tasks yet")
}

func TestSession_PrimaryParserDrivesExecution(t *testing.T) {
	gen := &fakeGenerator{response: "INTENT: ADD\nTITLE: pay rent"}
	s, tasks, _ := setupSession(t, gen)
	ctx := context.Background()

	reply, err := s.HandleMessage(ctx, "alice", nil, "could you note down the rent?")
	require.NoError(t, err)
	assert.Contains(t, reply.Response, "pay rent")

	created, err := tasks.List(ctx, "alice", store.StatusPending)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "pay rent", created[0].Title)
}

func TestSession_GeneratorFailureDegradesSilently(t *testing.T) {
	gen := &fakeGenerator{delay: time.Second} // always times out
	s, tasks, _ := setupSession(t, gen)
	ctx := context.Background()

	reply, err := s.HandleMessage(ctx, "alice", nil, "add a task to buy groceries")
	require.NoError(t, err, "model failure must be invisible to the caller")
	assert.Contains(t, reply.Response, "Task added successfully")

	created, err := tasks.List(ctx, "alice", store.StatusPending)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "buy groceries", created[0].Title)
}

func TestSession_Transcript(t *testing.T) {
	s, _, _ := setupSession(t, nil)
	ctx := context.Background()

	reply, err := s.HandleMessage(ctx, "alice", nil, "add a task to buy milk")
	require.NoError(t, err)

	msgs, err := s.Transcript(ctx, "alice", reply.ConversationID)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	_, err = s.Transcript(ctx, "bob", reply.ConversationID)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}
