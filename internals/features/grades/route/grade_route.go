package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	externalService "portalpadres_backend/internals/features/external/service"
	gradeController "portalpadres_backend/internals/features/grades/controller"
)

func GradeRoutes(app fiber.Router, db *gorm.DB, siga *externalService.SigaClient) {
	ctrl := gradeController.NewGradeController(db, siga)

	grades := app.Group("/grades")
	grades.Get("/student/:id", ctrl.GetStudentGrades)
}
