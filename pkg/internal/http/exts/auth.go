package exts

import (
	"github.com/gofiber/fiber/v2"

	"github.com/publicador/server/pkg/internal/models"
)

// EnsureAuthenticated returns the account bound by the auth middleware, or
// fails the request with 401.
func EnsureAuthenticated(c *fiber.Ctx) (models.Account, error) {
	if user, ok := c.Locals("user").(models.Account); ok {
		return user, nil
	}
	return models.Account{}, fiber.ErrUnauthorized
}
