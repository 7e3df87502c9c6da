package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	externalService "portalpadres_backend/internals/features/external/service"
	reportController "portalpadres_backend/internals/features/reports/controller"
)

func ReportRoutes(app fiber.Router, db *gorm.DB, siga *externalService.SigaClient) {
	ctrl := reportController.NewReportController(db, siga)

	reports := app.Group("/reports")
	reports.Get("/boleta/:al_id", ctrl.GetBoleta)
	reports.Get("/certificado-electronico/:al_id", ctrl.GetCertificadoElectronico)
	reports.Get("/reporte-componentes/:al_id", ctrl.GetReporteComponentes)
}
