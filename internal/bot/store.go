package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrStateCorrupted = errors.New("STATE_CORRUPTED")

// Store holds dialog-stack state between turns, keyed by conversation
// identity. Load returns an empty state for an unknown conversation.
type Store interface {
	Load(ctx context.Context, conversationID string) (*State, error)
	Save(ctx context.Context, conversationID string, state *State) error
}

// MemoryStore keeps serialized state in process memory. Used in tests and
// single-instance deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string][]byte)}
}

func (m *MemoryStore) Load(ctx context.Context, conversationID string) (*State, error) {
	m.mu.RLock()
	raw, ok := m.states[conversationID]
	m.mu.RUnlock()

	if !ok {
		return &State{}, nil
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateCorrupted, err)
	}
	return &state, nil
}

func (m *MemoryStore) Save(ctx context.Context, conversationID string, state *State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.states[conversationID] = raw
	m.mu.Unlock()
	return nil
}

// RedisStore persists state in Redis with an idle TTL, letting abandoned
// conversations age out on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func stateKey(conversationID string) string {
	return "conversation:" + conversationID
}

func (r *RedisStore) Load(ctx context.Context, conversationID string) (*State, error) {
	raw, err := r.client.Get(ctx, stateKey(conversationID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("load conversation state: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateCorrupted, err)
	}
	return &state, nil
}

func (r *RedisStore) Save(ctx context.Context, conversationID string, state *State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, stateKey(conversationID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("save conversation state: %w", err)
	}
	return nil
}
