package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	externalService "portalpadres_backend/internals/features/external/service"
	gradeModel "portalpadres_backend/internals/features/grades/model"
	studentService "portalpadres_backend/internals/features/students/service"
	helper "portalpadres_backend/internals/helpers"
)

type GradeController struct {
	DB    *gorm.DB
	Links *studentService.LinkService
}

func NewGradeController(db *gorm.DB, siga *externalService.SigaClient) *GradeController {
	return &GradeController{
		DB:    db,
		Links: studentService.NewLinkService(db, siga),
	}
}

// GradesByPeriod groups one period's grades together.
type GradesByPeriod struct {
	Periodo        string             `json:"periodo"`
	Calificaciones []gradeModel.Grade `json:"calificaciones"`
}

// GetStudentGrades handles GET /grades/student/:id. Only guardians linked to
// the student may read them.
func (gc *GradeController) GetStudentGrades(c *fiber.Ctx) error {
	uid, err := helper.GetUserID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Sesión inválida")
	}
	correo, _ := helper.GetUserEmail(c)

	alID, err := c.ParamsInt("id")
	if err != nil || alID <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Identificador de alumno inválido")
	}

	owns, err := gc.Links.OwnsStudent(c.Context(), uid, correo, alID)
	if err != nil {
		log.Printf("[ERROR] verificar acceso a alumno %d: %v", alID, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible consultar las calificaciones")
	}
	if !owns {
		return helper.Error(c, fiber.StatusForbidden, "No tienes acceso a las calificaciones de este estudiante")
	}

	var grades []gradeModel.Grade
	if err := gc.DB.Where("al_id = ?", alID).Find(&grades).Error; err != nil {
		log.Printf("[ERROR] consultar calificaciones de %d: %v", alID, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible consultar las calificaciones")
	}

	return helper.Success(c, "Calificaciones del alumno", groupByPeriod(grades))
}

// groupByPeriod keeps the first-seen order of the periods.
func groupByPeriod(grades []gradeModel.Grade) []GradesByPeriod {
	byPeriod := make(map[string]int)
	out := make([]GradesByPeriod, 0)
	for _, g := range grades {
		idx, ok := byPeriod[g.Periodo]
		if !ok {
			idx = len(out)
			byPeriod[g.Periodo] = idx
			out = append(out, GradesByPeriod{Periodo: g.Periodo})
		}
		out[idx].Calificaciones = append(out[idx].Calificaciones, g)
	}
	return out
}
