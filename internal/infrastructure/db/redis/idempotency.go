package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers which entry id a create request's
// Idempotency-Key produced.
// Key format: idem:items:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis
// client. A non-positive ttl falls back to 24h.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Lookup returns the entry id recorded for key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (int64, bool, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("idempotency lookup: %w", err)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: bad value %q: %w", raw, err)
	}
	return id, true, nil
}

// Remember records id for key (expires after the store's ttl).
func (s *IdempotencyStore) Remember(ctx context.Context, key string, id int64) error {
	if err := s.client.Set(ctx, s.key(key), strconv.FormatInt(id, 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(key string) string {
	return "idem:items:" + key
}
