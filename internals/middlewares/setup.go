package middlewares

import (
	"github.com/gofiber/fiber/v2"
)

// SetupMiddlewares registers the base middleware chain
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
