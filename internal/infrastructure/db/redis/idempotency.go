package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore holds Idempotency-Key values claimed by a sender.
// Key format: idempotency:send:<sender>:<key>
type IdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
// A non-positive ttl falls back to defaultIdempotencyTTL.
func NewIdempotencyStore(client redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Claim atomically takes key for sender with SET NX. It returns false when
// the key is already held by an earlier send.
func (s *IdempotencyStore) Claim(ctx context.Context, sender, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(sender, key), "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency claim: %w", err)
	}
	return ok, nil
}

// Release drops a claim so the key can be reused.
func (s *IdempotencyStore) Release(ctx context.Context, sender, key string) error {
	if err := s.client.Del(ctx, s.key(sender, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(sender, key string) string {
	return fmt.Sprintf("idempotency:send:%s:%s", sender, key)
}
