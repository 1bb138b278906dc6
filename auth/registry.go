package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRegistry remembers which session ids are still signed in.
type SessionRegistry interface {
	Register(ctx context.Context, sessionID, username string, ttl time.Duration) error
	Active(ctx context.Context, sessionID string) (bool, error)
	Remove(ctx context.Context, sessionID string) error
}

type MemoryRegistry struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	now      func() time.Time
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{sessions: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryRegistry) Register(_ context.Context, sessionID, _ string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	// expired entries are swept on write; there is no background goroutine
	for id, exp := range m.sessions {
		if now.After(exp) {
			delete(m.sessions, id)
		}
	}
	m.sessions[sessionID] = now.Add(ttl)
	return nil
}

func (m *MemoryRegistry) Active(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.sessions[sessionID]
	return ok && !m.now().After(exp), nil
}

func (m *MemoryRegistry) Remove(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}

const redisSessionPrefix = "spicymarket:session:"

// RedisRegistry shares sessions between server instances; Redis expires them.
type RedisRegistry struct {
	client *redis.Client
}

func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{client: client}
}

func (r *RedisRegistry) Register(ctx context.Context, sessionID, username string, ttl time.Duration) error {
	if err := r.client.Set(ctx, redisSessionPrefix+sessionID, username, ttl).Err(); err != nil {
		return fmt.Errorf("register session: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Active(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.client.Exists(ctx, redisSessionPrefix+sessionID).Result()
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return n == 1, nil
}

func (r *RedisRegistry) Remove(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, redisSessionPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
