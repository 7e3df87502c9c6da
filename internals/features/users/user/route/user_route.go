package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "portalpadres_backend/internals/features/users/user/controller"
)

func UserRoutes(app fiber.Router, db *gorm.DB) {
	ctrl := userController.NewUserController(db)

	app.Get("/users/me", ctrl.GetMe)
	app.Put("/users/me", ctrl.UpdateMe)
	app.Put("/users/update-address", ctrl.UpdateAddress)
}
