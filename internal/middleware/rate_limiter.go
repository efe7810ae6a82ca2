package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RateStore counts requests per key in a fixed window
type RateStore interface {
	// Hit increments key and returns the count and the time left in the window.
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RedisRateStore keeps counters in redis
type RedisRateStore struct {
	client *redis.Client
}

func NewRedisRateStore(client *redis.Client) *RedisRateStore {
	return &RedisRateStore{client: client}
}

func (s *RedisRateStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
	}
	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return count, ttl, nil
}

// RateLimiter rejects clients that exceed limit requests per window. Store failures let the
// request through.
func RateLimiter(store RateStore, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("rate_limit:%s", c.RealIP())

			count, ttl, err := store.Hit(c.Request().Context(), key, window)
			if err != nil {
				log.WithError(err).Warn("rate limiter unavailable, allowing request")
				return next(c)
			}

			headers := c.Response().Header()
			headers.Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))

			if count > int64(limit) {
				headers.Set("X-RateLimit-Remaining", "0")
				headers.Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(ttl).Unix()))
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":       "Too many requests",
					"retry_after": ttl.Seconds(),
				})
			}

			headers.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", int64(limit)-count))
			return next(c)
		}
	}
}
