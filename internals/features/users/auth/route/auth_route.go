package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "portalpadres_backend/internals/features/users/auth/controller"
	"portalpadres_backend/internals/middlewares"
)

func AuthRoutes(app fiber.Router, db *gorm.DB) {
	ctrl := authController.NewAuthController(db)

	auth := app.Group("/auth")
	auth.Post("/register", ctrl.Register)
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	auth.Post("/login-google", middlewares.LoginRateLimiter(), ctrl.LoginGoogle)
	auth.Post("/activate/:token", ctrl.Activate)
}
