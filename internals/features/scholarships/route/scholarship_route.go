package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	scholarshipController "portalpadres_backend/internals/features/scholarships/controller"
)

func ScholarshipRoutes(app fiber.Router, db *gorm.DB) {
	ctrl := scholarshipController.NewScholarshipController(db)

	scholarships := app.Group("/scholarships")
	scholarships.Get("/info", ctrl.GetInfo)
}
