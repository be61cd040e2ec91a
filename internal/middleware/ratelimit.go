package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/makeasinger/lyricarchitect/internal/logger"
	"github.com/makeasinger/lyricarchitect/pkg/response"
	"github.com/redis/go-redis/v9"
)

const generateKeyPrefix = "generate"

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type RateLimiter struct {
	redis *redis.Client
	log   *logger.Logger
}

func NewRateLimiter(redisClient *redis.Client, log *logger.Logger) *RateLimiter {
	if log == nil {
		log = logger.Nop()
	}
	return &RateLimiter{redis: redisClient, log: log}
}

// Allow counts one request for subject in a fixed window. Redis errors fail open.
func (rl *RateLimiter) Allow(ctx context.Context, keyPrefix, subject string, maxRequests int, window time.Duration) Decision {
	key := fmt.Sprintf("ratelimit:%s:%s", keyPrefix, subject)

	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		rl.log.Warn("Rate limiter unavailable, allowing request", "key", key, "error", err.Error())
		return Decision{Allowed: true, Remaining: maxRequests}
	}

	if count == 1 {
		rl.redis.Expire(ctx, key, window)
	}

	if count > int64(maxRequests) {
		ttl, _ := rl.redis.TTL(ctx, key).Result()
		if ttl < 0 {
			ttl = window
		}
		return Decision{Allowed: false, RetryAfter: ttl}
	}

	return Decision{Allowed: true, Remaining: maxRequests - int(count)}
}

// Limit creates a rate limiting middleware keyed by user ID, or client IP for
// anonymous requests.
func (rl *RateLimiter) Limit(keyPrefix string, maxRequests int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subject := GetUserID(c)
		if subject == "" {
			subject = "ip:" + c.IP()
		}

		d := rl.Allow(c.UserContext(), keyPrefix, subject, maxRequests, window)
		if !d.Allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(d.RetryAfter.Seconds())))
			return response.RateLimited(c)
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))

		return c.Next()
	}
}

// GenerateLimit limits song generation requests per minute
func (rl *RateLimiter) GenerateLimit(maxPerMin int) fiber.Handler {
	return rl.Limit(generateKeyPrefix, maxPerMin, time.Minute)
}

// AllowGenerate applies the generation quota outside the HTTP middleware chain,
// for generate messages arriving over a WebSocket session.
func (rl *RateLimiter) AllowGenerate(ctx context.Context, subject string, maxPerMin int) bool {
	return rl.Allow(ctx, generateKeyPrefix, subject, maxPerMin, time.Minute).Allowed
}
