package bot

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	// Unknown conversation loads as idle.
	state, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.True(t, state.Idle())

	inst := state.Push("SubmitTicket")
	inst.Step = 2
	inst.Data["severity"] = "high"
	prompt := NewTextPrompt("Which category?")
	inst.Prompt = &prompt

	require.NoError(t, store.Save(ctx, "conv-1", state))

	loaded, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, loaded.Stack, 1)
	active := loaded.Active()
	assert.Equal(t, "SubmitTicket", active.Name)
	assert.Equal(t, 2, active.Step)
	assert.Equal(t, "high", active.Data["severity"])
	require.NotNil(t, active.Prompt)
	assert.Equal(t, PromptText, active.Prompt.Kind)
}

func TestMemoryStore_IsolatesConversations(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	state := &State{}
	state.Push("Help")
	require.NoError(t, store.Save(ctx, "conv-a", state))

	other, err := store.Load(ctx, "conv-b")
	require.NoError(t, err)
	assert.True(t, other.Idle())
}

func TestRedisStore_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	state, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.True(t, state.Idle())

	state.Push("ExploreKnowledgeBase")
	require.NoError(t, store.Save(ctx, "conv-1", state))

	loaded, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, loaded.Stack, 1)
	assert.Equal(t, "ExploreKnowledgeBase", loaded.Active().Name)

	// Idle conversations expire with the TTL.
	mr.FastForward(2 * time.Hour)
	expired, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.True(t, expired.Idle())
}

func TestRedisStore_CorruptedState(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Hour)

	require.NoError(t, mr.Set("conversation:conv-1", "{not json"))

	_, err := store.Load(context.Background(), "conv-1")
	assert.ErrorIs(t, err, ErrStateCorrupted)
}

func TestRedisStore_SaveSetsTTL(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, 30*time.Minute)

	state := &State{}
	state.Push("Help")
	raw, err := json.Marshal(state)
	require.NoError(t, err)

	mock.ExpectSet("conversation:conv-1", raw, 30*time.Minute).SetVal("OK")

	require.NoError(t, store.Save(context.Background(), "conv-1", state))
	assert.NoError(t, mock.ExpectationsWereMet())
}
