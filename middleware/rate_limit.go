package middleware

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/darlington872/lastman55444-sub000/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`)

// RateLimiter is a fixed-window counter shared across instances through Redis.
type RateLimiter struct {
	client redis.UniversalClient
	prefix string
}

func NewRateLimiter(client redis.UniversalClient, prefix string) *RateLimiter {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = "numbermart:rate_limit"
	}
	return &RateLimiter{client: client, prefix: prefix}
}

// Consume counts one hit for subject in scope. A nil limiter or client never limits.
func (r *RateLimiter) Consume(ctx context.Context, scope, subject string, limit int, window time.Duration) (count, retryAfterSeconds int, err error) {
	if r == nil || r.client == nil || limit <= 0 || window <= 0 || subject == "" {
		return 0, 0, nil
	}

	windowMs := window.Milliseconds()
	if windowMs < 1000 {
		windowMs = 1000
	}
	key := fmt.Sprintf("%s:%s:%s", r.prefix, scope, subject)
	raw, err := rateLimitScript.Run(ctx, r.client, []string{key}, windowMs).Result()
	if err != nil {
		return 0, 0, err
	}

	values, ok := raw.([]interface{})
	if !ok || len(values) != 2 {
		return 0, 0, fmt.Errorf("unexpected rate limiter response: %T", raw)
	}
	current, ok := values[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected rate limiter count type: %T", values[0])
	}
	ttlMs, ok := values[1].(int64)
	if !ok || ttlMs < 0 {
		ttlMs = windowMs
	}

	retryAfter := int(math.Ceil(float64(ttlMs) / 1000.0))
	if retryAfter < 1 {
		retryAfter = 1
	}
	return int(current), retryAfter, nil
}

// PerUser limits requests per authenticated user. It must run after Protected.
// Redis failures let the request through.
func (r *RateLimiter) PerUser(scope string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return c.Next()
		}

		count, retryAfter, err := r.Consume(c.UserContext(), scope, userID.String(), limit, window)
		if err != nil {
			logger.Log.Warn("rate limiter unavailable", zap.String("scope", scope), zap.Error(err))
			return c.Next()
		}
		if count > limit {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status":  "error",
				"error":   "RateLimited",
				"message": fmt.Sprintf("too many requests, retry in %d seconds", retryAfter),
			})
		}
		return c.Next()
	}
}
