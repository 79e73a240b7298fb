package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/mroshb/dice_game/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter shares fixed-window counters between server replicas.
// When Redis is unreachable requests are let through.
type RedisRateLimiter struct {
	client          *redis.Client
	userMaxRequests int
	ipMaxRequests   int
	window          time.Duration
}

func NewRedisRateLimiter(client *redis.Client, userMaxRequests, ipMaxRequests int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:          client,
		userMaxRequests: userMaxRequests,
		ipMaxRequests:   ipMaxRequests,
		window:          window,
	}
}

func (r *RedisRateLimiter) CheckUserLimit(ctx context.Context, userID string) bool {
	return r.check(ctx, fmt.Sprintf("ratelimit:user:%s", userID), r.userMaxRequests)
}

func (r *RedisRateLimiter) CheckIPLimit(ctx context.Context, ip string) bool {
	return r.check(ctx, fmt.Sprintf("ratelimit:ip:%s", ip), r.ipMaxRequests)
}

// check counts one request against key. The counter is created with its
// expiry and incremented in one MULTI/EXEC, so no key outlives its window.
func (r *RedisRateLimiter) check(ctx context.Context, key string, limit int) bool {
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, key, 0, r.window)
		incr = pipe.Incr(ctx, key)
		return nil
	})
	if err != nil {
		logger.Warn("Rate limit check failed, allowing request", "key", key, "error", err)
		return true
	}

	return incr.Val() <= int64(limit)
}

// NewRedisClient connects and pings; callers fall back to the in-memory
// limiter on error.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
