package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LimiterRepository implements a fixed-window counter on Redis, used to
// throttle the auth endpoints.
type LimiterRepository struct {
	client *redis.Client
}

// NewLimiterRepository constructs a limiter repository.
func NewLimiterRepository(client *redis.Client) *LimiterRepository {
	return &LimiterRepository{client: client}
}

// Hit increments the window counter for the key and returns the new count.
// The window TTL is armed on the first hit.
func (r *LimiterRepository) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	if r.client == nil {
		return 0, nil
	}

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return count, fmt.Errorf("redis expire %s: %w", key, err)
		}
	}
	return count, nil
}
