package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentController "portalpadres_backend/internals/features/students/controller"
	"portalpadres_backend/internals/features/students/service"
)

func StudentRoutes(app fiber.Router, db *gorm.DB, siga service.StudentFinder) {
	ctrl := studentController.NewStudentController(db, siga)

	students := app.Group("/students")
	students.Get("/my-students", ctrl.GetMyStudents)
	students.Post("/link-student", ctrl.LinkStudent)
	students.Post("/link-student-with-cct", ctrl.LinkStudentWithCCT)
	students.Delete("/unlink-student/:id", ctrl.UnlinkStudent)
	students.Post("/add-student", ctrl.AddStudent)
	students.Get("/:id/teachers", ctrl.GetStudentTeachers)
}
