package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sango-bank/sango_bank/internal/identity"
)

// RegisterOperatorRoutes wires operator registration.
func RegisterOperatorRoutes(r fiber.Router, ops *identity.Service) {
	r.Post("/operators/register", func(c *fiber.Ctx) error {
		var req struct {
			Username string `json:"username"`
			PIN      string `json:"pin"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		op, err := ops.Register(c.UserContext(), identity.Credentials{Username: req.Username, PIN: req.PIN})
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"operator_id": op.ID,
			"username":    op.Username,
			"role":        op.Role,
		})
	})
}
