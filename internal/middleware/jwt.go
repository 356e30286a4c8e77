package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sango-bank/sango_bank/internal/auth"
	"github.com/sango-bank/sango_bank/internal/config"
	"github.com/sango-bank/sango_bank/internal/identity"
)

// JWTAuth validates operator access tokens and checks the token version so
// logged-out tokens stop working immediately.
func JWTAuth(cfg config.Config, repo identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		claims, err := auth.Verify(tokenStr, []byte(cfg.JWTSecret))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		op, err := repo.FindByID(c.UserContext(), claims.Subject)
		if err != nil || op.TokenVersion != claims.Version {
			return fiber.NewError(http.StatusUnauthorized, "token invalidated")
		}

		c.Locals("operator_id", claims.Subject)
		c.Locals("operator_role", op.Role)
		return c.Next()
	}
}
