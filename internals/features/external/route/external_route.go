package route

import (
	"github.com/gofiber/fiber/v2"

	externalController "portalpadres_backend/internals/features/external/controller"
	externalService "portalpadres_backend/internals/features/external/service"
)

func ExternalRoutes(app fiber.Router, client *externalService.SigaClient) {
	ctrl := externalController.NewExternalController(client)

	ext := app.Group("/external")
	ext.Get("/estudiante/:curp/:cct", ctrl.GetEstudianteByCURPCCT)
	ext.Get("/estudiante/:id_alumno", ctrl.GetEstudianteByID)
	ext.Get("/boleta/:id_alumno", ctrl.GetBoleta)
	ext.Get("/boleta-historica/:id_alumno/:anio_inicio", ctrl.GetBoletaHistorica)
	ext.Post("/baja", ctrl.SolicitarBaja)
	ext.Get("/catalogo/tipos-de-baja", ctrl.GetTiposBaja)
	ext.Post("/auth/login", ctrl.SigaLogin)
	ext.Get("/auth/token-status", ctrl.GetTokenStatus)
}
