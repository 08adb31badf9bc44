package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"detailbook/models"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "bookingFlow:"

// SessionStore persists wizard snapshots by session id. Load returns nil, nil
// for an unknown id.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*models.SessionSnapshot, error)
	Save(ctx context.Context, sessionID string, snap models.SessionSnapshot) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps snapshots as JSON strings. Keys outlive the session
// expiry so that an expired session is still found and reset on rehydration.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, expiry time.Duration) *RedisSessionStore {
	if expiry <= 0 {
		expiry = DefaultSessionExpiry
	}
	return &RedisSessionStore{client: client, ttl: 2 * expiry}
}

func (s *RedisSessionStore) key(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (s *RedisSessionStore) Load(ctx context.Context, sessionID string) (*models.SessionSnapshot, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	var snap models.SessionSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &snap, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, sessionID string, snap models.SessionSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sessionID, err)
	}
	return s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

// MemorySessionStore is an in-process store for development and tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string][]byte)}
}

func (s *MemorySessionStore) Load(_ context.Context, sessionID string) (*models.SessionSnapshot, error) {
	s.mu.RLock()
	data, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var snap models.SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *MemorySessionStore) Save(_ context.Context, sessionID string, snap models.SessionSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions[sessionID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}
