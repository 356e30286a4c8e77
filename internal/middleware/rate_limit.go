package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimit caps requests per minute for a given scope using Redis INCR.
// The key function derives the counter key from the request; an empty key
// falls back to the client IP. Without Redis the limiter is a no-op, and it
// fails open on cache errors.
func RateLimit(cache *redis.Client, scope string, maxPerMin int, key func(c *fiber.Ctx) string) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}

		id := ""
		if key != nil {
			id = strings.TrimSpace(key(c))
		}
		if id == "" {
			id = c.IP()
		}

		counter := "rl:" + scope + ":" + id
		cnt, err := cache.Incr(c.UserContext(), counter).Result()
		if err != nil {
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), counter, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many requests, try again later")
		}
		return c.Next()
	}
}

// AccountParamKey keys a rate limit counter by the :name route parameter, so
// each account gets its own mutation budget.
func AccountParamKey(c *fiber.Ctx) string {
	return c.Params("name")
}
