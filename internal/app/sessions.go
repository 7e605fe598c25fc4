package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shrimpsizemoose/trekker/logger"
)

// SessionStore remembers which session ids passed the password check.
type SessionStore interface {
	Create(ctx context.Context, ttl time.Duration) (string, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

func newSessionID() string {
	return uuid.NewString()
}

type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (m *MemorySessionStore) Create(ctx context.Context, ttl time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, expires := range m.sessions {
		if !now.Before(expires) {
			delete(m.sessions, id)
		}
	}

	id := newSessionID()
	m.sessions[id] = now.Add(ttl)
	return id, nil
}

func (m *MemorySessionStore) Exists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expires, ok := m.sessions[id]
	if !ok {
		return false, nil
	}
	if !m.now().Before(expires) {
		delete(m.sessions, id)
		return false, nil
	}
	return true, nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemorySessionStore) Close() error {
	return nil
}

type RedisSessionStore struct {
	redis       *redis.Client
	keyTemplate string
}

func NewRedisSessionStore(redisURL, keyTemplate string) (*RedisSessionStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisSessionStore{redis: client, keyTemplate: keyTemplate}, nil
}

func (s *RedisSessionStore) key(id string) string {
	return strings.NewReplacer("{session}", id).Replace(s.keyTemplate)
}

func (s *RedisSessionStore) Create(ctx context.Context, ttl time.Duration) (string, error) {
	id := newSessionID()
	now := time.Now().UTC().Format(time.RFC3339)

	pipe := s.redis.TxPipeline()
	pipe.HSet(ctx, s.key(id), map[string]interface{}{
		"authenticated":    1,
		"created_dttm_utc": now,
	})
	pipe.Expire(ctx, s.key(id), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

func (s *RedisSessionStore) Exists(ctx context.Context, id string) (bool, error) {
	authenticated, err := s.redis.HGet(ctx, s.key(id), "authenticated").Result()
	if err == redis.Nil {
		logger.Debug.Printf("Session not found for key: %s", s.key(id))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return authenticated == "1", nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
