package controller

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	externalService "portalpadres_backend/internals/features/external/service"
	"portalpadres_backend/internals/features/reports/service"
	studentService "portalpadres_backend/internals/features/students/service"
	helper "portalpadres_backend/internals/helpers"
)

type ReportController struct {
	Reports *service.ReportService
	Links   *studentService.LinkService
}

func NewReportController(db *gorm.DB, siga *externalService.SigaClient) *ReportController {
	return &ReportController{
		Reports: service.NewReportService(db),
		Links:   studentService.NewLinkService(db, siga),
	}
}

// authorizeStudent resolves :al_id and checks ownership. On failure the
// response is already written and ok is false.
func (rc *ReportController) authorizeStudent(c *fiber.Ctx) (alID int, ok bool) {
	uid, err := helper.GetUserID(c)
	if err != nil {
		helper.Error(c, fiber.StatusUnauthorized, "Sesión inválida")
		return 0, false
	}
	correo, _ := helper.GetUserEmail(c)

	alID, err = c.ParamsInt("al_id")
	if err != nil || alID <= 0 {
		helper.Error(c, fiber.StatusBadRequest, "Identificador de alumno inválido")
		return 0, false
	}

	owns, err := rc.Links.OwnsStudent(c.Context(), uid, correo, alID)
	if err != nil {
		log.Printf("[ERROR] verificar acceso a alumno %d: %v", alID, err)
		helper.Error(c, fiber.StatusInternalServerError, "No fue posible verificar el acceso")
		return 0, false
	}
	if !owns {
		helper.Error(c, fiber.StatusForbidden, "No tienes acceso a este estudiante")
		return 0, false
	}
	return alID, true
}

// GetBoleta handles GET /reports/boleta/:al_id and answers the PDF inline.
func (rc *ReportController) GetBoleta(c *fiber.Ctx) error {
	alID, ok := rc.authorizeStudent(c)
	if !ok {
		return nil
	}

	pdf, err := rc.Reports.BoletaPDF(c.Context(), alID)
	if err != nil {
		var upstream *service.UpstreamError
		if errors.As(err, &upstream) {
			return helper.Error(c, fiber.StatusServiceUnavailable, upstream.Message)
		}
		log.Printf("[ERROR] obtener boleta de %d: %v", alID, err)
		return helper.Error(c, fiber.StatusServiceUnavailable,
			"No es posible generar la boleta en este momento")
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf("inline; filename=boleta_%d.pdf", alID))
	return c.Send(pdf)
}

// GetCertificadoElectronico handles GET /reports/certificado-electronico/:al_id.
func (rc *ReportController) GetCertificadoElectronico(c *fiber.Ctx) error {
	alID, ok := rc.authorizeStudent(c)
	if !ok {
		return nil
	}

	ciclo := c.Query("ciclo", "2425")
	url, err := rc.Reports.CertificateURL(c.Context(), alID, ciclo)
	if errors.Is(err, service.ErrCertificateNotReady) {
		return helper.Error(c, fiber.StatusNotFound,
			"Certificado electronico no disponible para este estudiante")
	}
	if err != nil {
		log.Printf("[ERROR] consultar certificado de %d: %v", alID, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible consultar el certificado")
	}

	return helper.Success(c, "Certificado electronico disponible", fiber.Map{
		"certificate_url": url,
	})
}

// GetReporteComponentes handles GET /reports/reporte-componentes/:al_id.
func (rc *ReportController) GetReporteComponentes(c *fiber.Ctx) error {
	alID, ok := rc.authorizeStudent(c)
	if !ok {
		return nil
	}

	ciclo := c.Query("ciclo", "2223")
	return helper.Success(c, "Reporte de componentes curriculares disponible", fiber.Map{
		"report_url": rc.Reports.ComponentReportURL(alID, ciclo),
	})
}
