package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func TestRateLimitPerAccount(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	app := fiber.New()
	app.Post("/accounts/:name/deposit", RateLimit(cache, "deposit", 2, AccountParamKey), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	post := func(name string) int {
		req := httptest.NewRequest(fiber.MethodPost, "/accounts/"+name+"/deposit", strings.NewReader("{}"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if got := post("Alice"); got != fiber.StatusOK {
		t.Fatalf("first request: expected 200, got %d", got)
	}
	if got := post("Alice"); got != fiber.StatusOK {
		t.Fatalf("second request: expected 200, got %d", got)
	}
	if got := post("Alice"); got != fiber.StatusTooManyRequests {
		t.Fatalf("third request: expected 429, got %d", got)
	}

	// Counters are per account name.
	if got := post("Bob"); got != fiber.StatusOK {
		t.Fatalf("other account must not be throttled, got %d", got)
	}
}

func TestRateLimitWithoutRedisIsNoop(t *testing.T) {
	app := fiber.New()
	app.Post("/accounts/:name/deposit", RateLimit(nil, "deposit", 1, AccountParamKey), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(fiber.MethodPost, "/accounts/Alice/deposit", strings.NewReader("{}"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected 200 without cache, got %d", resp.StatusCode)
		}
	}
}
