package helper

import (
	"github.com/gofiber/fiber/v2"
)

// GetUserID reads the authenticated user's id set by the JWT middleware.
func GetUserID(c *fiber.Ctx) (uint, error) {
	raw := c.Locals("user_id")
	id, ok := raw.(uint)
	if !ok || id == 0 {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing user id")
	}
	return id, nil
}

// GetUserEmail reads the authenticated user's email set by the JWT middleware.
func GetUserEmail(c *fiber.Ctx) (string, error) {
	raw := c.Locals("user_email")
	email, ok := raw.(string)
	if !ok || email == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing user email")
	}
	return email, nil
}
