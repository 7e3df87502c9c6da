package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"portalpadres_backend/internals/features/scholarships/model"
	helper "portalpadres_backend/internals/helpers"
)

type ScholarshipController struct {
	DB *gorm.DB
}

func NewScholarshipController(db *gorm.DB) *ScholarshipController {
	return &ScholarshipController{DB: db}
}

// GetInfo handles GET /scholarships/info. Rows come from pp_becas; when the
// table is empty a built-in static catalog is served so the portal never
// shows an empty page.
func (sc *ScholarshipController) GetInfo(c *fiber.Ctx) error {
	var scholarships []model.Scholarship
	err := sc.DB.Where("activa = ?", true).Order("id").Find(&scholarships).Error
	if err != nil {
		log.Printf("[ERROR] consultar becas: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible consultar las becas")
	}

	if len(scholarships) == 0 {
		return helper.Success(c, "Informacion sobre becas disponibles", staticCatalog())
	}

	return helper.Success(c, "Informacion sobre becas disponibles", fiber.Map{
		"scholarships": scholarships,
		"enlaces": []fiber.Map{
			{"nombre": "Portal de Becas USEBEQ", "url": "https://www.usebeq.edu.mx/becas"},
		},
	})
}

func staticCatalog() fiber.Map {
	return fiber.Map{
		"scholarships": []fiber.Map{
			{
				"nombre":      "Beca de Apoyo a la Educacion Basica",
				"descripcion": "Apoyo economico para estudiantes de educacion basica en situacion vulnerable",
				"requisitos": []string{
					"Estar inscrito en una escuela publica del estado de Queretaro",
					"Presentar situacion economica vulnerable",
					"Mantener promedio minimo de 8.0",
				},
				"contacto": "becas@usebeq.edu.mx",
			},
			{
				"nombre":      "Beca de Excelencia Academica",
				"descripcion": "Reconocimiento a estudiantes con alto rendimiento academico",
				"requisitos": []string{
					"Promedio general minimo de 9.5",
					"No haber reprobado ninguna materia",
				},
				"contacto": "excelencia@usebeq.edu.mx",
			},
		},
		"enlaces": []fiber.Map{
			{"nombre": "Portal de Becas USEBEQ", "url": "https://www.usebeq.edu.mx/becas"},
		},
	}
}
