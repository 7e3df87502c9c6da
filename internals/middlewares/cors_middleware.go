package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"portalpadres_backend/internals/configs"
)

// CorsMiddleware builds the CORS middleware; origins come from env, with
// localhost defaults for the frontend dev server.
func CorsMiddleware() fiber.Handler {
	origins := configs.GetEnv("BACKEND_CORS_ORIGINS", strings.Join([]string{
		"http://localhost:3000",
		"http://localhost:5173",
		"https://portal.usebeq.edu.mx",
	}, ","))

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	})
}
