package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestIDKey is the header and locals key carrying the request identifier.
const RequestIDKey = "X-Request-ID"

// RequestID tags every request with an identifier so audit lines and error
// reports can be correlated. An inbound identifier is kept; otherwise a new
// one is generated and echoed back to the client.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Locals(RequestIDKey, id)
		return c.Next()
	}
}
