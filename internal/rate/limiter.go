package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "grt"

// Limiter enforces fixed-window attempt budgets keyed by arbitrary bucket
// keys. The window opens on the first hit and decays after the configured
// TTL; it is never extended by later hits.
type Limiter struct {
	redis  redis.UniversalClient
	prefix string
}

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient) *Limiter {
	return &Limiter{
		redis:  redisClient,
		prefix: defaultPrefix,
	}
}

func (l *Limiter) redisKey(key string) string {
	return l.prefix + ":" + key
}

// TooManyAttempts reports whether the key has already used up maxAttempts in
// the current window. It does not record an attempt.
func (l *Limiter) TooManyAttempts(ctx context.Context, key string, maxAttempts int) (bool, error) {
	count, err := l.redis.Get(ctx, l.redisKey(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return count >= int64(maxAttempts), nil
}

// Hit records one attempt against the key. The decay TTL is set only when the
// hit opens a new window.
func (l *Limiter) Hit(ctx context.Context, key string, decay time.Duration) error {
	_, err := l.increment(ctx, l.redisKey(key), decay)
	return err
}

// AttemptAndHit records an attempt and reports whether it exceeded the
// budget, as a single check-then-increment that cannot race with concurrent
// callers: the INCR both claims and counts the attempt.
func (l *Limiter) AttemptAndHit(ctx context.Context, key string, maxAttempts int, decay time.Duration) (bool, error) {
	count, err := l.increment(ctx, l.redisKey(key), decay)
	if err != nil {
		return false, err
	}
	return count > int64(maxAttempts), nil
}

// Clear removes the key's window, e.g. after a completed password reset.
func (l *Limiter) Clear(ctx context.Context, key string) error {
	if err := l.redis.Del(ctx, l.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

func (l *Limiter) increment(ctx context.Context, redisKey string, decay time.Duration) (int64, error) {
	count, err := l.redis.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, redisKey, decay).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
	}
	return count, nil
}
