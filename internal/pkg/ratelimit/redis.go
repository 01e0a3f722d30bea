package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// RedisLimiter stores failures in one sorted set per (action, key), scored by
// unix milliseconds, so several API instances share the same counters.
type RedisLimiter struct {
	client   *redis.Client
	prefix   string
	policies map[Action]Policy
	now      func() time.Time
}

// RedisOptions configures the redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisClient opens a redis client from options.
func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// NewRedisLimiter creates a limiter backed by an existing client.
func NewRedisLimiter(client *redis.Client, prefix string, policies map[Action]Policy) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{
		client:   client,
		prefix:   prefix,
		policies: policies,
		now:      time.Now,
	}
}

func (l *RedisLimiter) key(action Action, key string) string {
	return fmt.Sprintf("%s:%s:%s", l.prefix, action, key)
}

func windowStart(now time.Time, window time.Duration) string {
	return strconv.FormatInt(now.Add(-window).UnixMilli(), 10)
}

// Check implements Limiter
func (l *RedisLimiter) Check(ctx context.Context, action Action, key string) (Decision, error) {
	policy, ok := policyFor(l.policies, action)
	if !ok {
		return Decision{Allowed: true}, nil
	}

	now := l.now()
	k := l.key(action, key)

	var (
		countCmd  *redis.IntCmd
		oldestCmd *redis.ZSliceCmd
	)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, k, "-inf", "("+windowStart(now, policy.Window))
		countCmd = pipe.ZCard(ctx, k)
		oldestCmd = pipe.ZRangeWithScores(ctx, k, 0, 0)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit check: %w", err)
	}

	if int(countCmd.Val()) < policy.MaxAttempts {
		return Decision{Allowed: true}, nil
	}

	decision := Decision{Allowed: false, RetryAfter: policy.Window}
	if oldest := oldestCmd.Val(); len(oldest) > 0 {
		firstAt := time.UnixMilli(int64(oldest[0].Score))
		decision.RetryAfter = policy.Window - now.Sub(firstAt)
	}
	return decision, nil
}

// RecordFailure implements Limiter
func (l *RedisLimiter) RecordFailure(ctx context.Context, action Action, key string) error {
	policy, ok := policyFor(l.policies, action)
	if !ok {
		return nil
	}

	now := l.now()
	k := l.key(action, key)

	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, k, &redis.Z{Score: float64(now.UnixMilli()), Member: uuid.NewString()})
		pipe.Expire(ctx, k, policy.Window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("rate limit record: %w", err)
	}
	return nil
}

// Reset implements Limiter
func (l *RedisLimiter) Reset(ctx context.Context, action Action, key string) error {
	if err := l.client.Del(ctx, l.key(action, key)).Err(); err != nil {
		return fmt.Errorf("rate limit reset: %w", err)
	}
	return nil
}
