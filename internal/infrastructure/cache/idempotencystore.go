package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "helpdesk:idem:"

// RedisIdempotencyStore fences duplicate requests with SET NX + TTL: the
// first caller inside the window owns the key, retries see it held.
type RedisIdempotencyStore struct {
	client *redis.Client
}

func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client}
}

func (s *RedisIdempotencyStore) TryAcquire(ctx context.Context, key string, window time.Duration) (bool, error) {
	acquired, err := s.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire idempotency key: %w", err)
	}
	return acquired, nil
}

// Release deletes the key so a retry of work that never took effect can
// acquire it again.
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, idempotencyKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

// MemoryIdempotencyStore is the single-process fallback used when redis
// is not configured, and in tests.
type MemoryIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{seen: make(map[string]time.Time)}
}

func (s *MemoryIdempotencyStore) TryAcquire(ctx context.Context, key string, window time.Duration) (bool, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, ok := s.seen[key]; ok && now.Before(expiry) {
		return false, nil
	}

	// Opportunistic cleanup keeps the map from growing unbounded.
	for k, expiry := range s.seen {
		if now.After(expiry) {
			delete(s.seen, k)
		}
	}

	s.seen[key] = now.Add(window)
	return true, nil
}

func (s *MemoryIdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.seen, key)
	s.mu.Unlock()
	return nil
}
