// Package cart persists shoppers' cart lines per cart session.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
)

// KeyPrefix is the well-known name carts are stored under.
const KeyPrefix = "cartItems:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func cacheKey(sessionID string) string {
	return KeyPrefix + sessionID
}

// Get returns the session's lines, or an empty cart when none is stored.
func (s *RedisStore) Get(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	value, err := s.client.Get(ctx, cacheKey(sessionID)).Result()
	if err == redis.Nil {
		return []domain.CartLine{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(value), &lines); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return lines, nil
}

// Set overwrites the whole cart and refreshes its expiry.
func (s *RedisStore) Set(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, cacheKey(sessionID), string(payload), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cacheKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartLine
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]domain.CartLine)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) ([]domain.CartLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CartLine{}, s.carts[sessionID]...), nil
}

func (s *MemoryStore) Set(_ context.Context, sessionID string, lines []domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = append([]domain.CartLine(nil), lines...)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
