package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	certController "portalpadres_backend/internals/features/certificates/controller"
	"portalpadres_backend/internals/features/certificates/service"
)

func CertificateRoutes(app fiber.Router, db *gorm.DB, payments service.PaymentLinker) {
	ctrl := certController.NewCertificateController(db, payments)

	cert := app.Group("/certificates")
	cert.Post("/request", ctrl.SubmitRequest)
	cert.Post("/photo", ctrl.UploadPhoto)
	cert.Get("/status/:folio", ctrl.GetStatus)
	cert.Get("/list/:curp", ctrl.ListByCURP)
}
