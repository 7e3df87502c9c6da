package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	certService "portalpadres_backend/internals/features/certificates/service"
	externalService "portalpadres_backend/internals/features/external/service"
	authMiddleware "portalpadres_backend/internals/middlewares/auth"

	certRoute "portalpadres_backend/internals/features/certificates/route"
	externalRoute "portalpadres_backend/internals/features/external/route"
	gradeRoute "portalpadres_backend/internals/features/grades/route"
	reportRoute "portalpadres_backend/internals/features/reports/route"
	scholarshipRoute "portalpadres_backend/internals/features/scholarships/route"
	studentRoute "portalpadres_backend/internals/features/students/route"
	authRoute "portalpadres_backend/internals/features/users/auth/route"
	userRoute "portalpadres_backend/internals/features/users/user/route"
)

// SetupRoutes mounts every feature under /api/v1. The certificate flow stays
// public (guardians request certificates before they ever create an account);
// everything touching student data requires a validated session.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// One SIGA client for the whole app so the token cache is shared.
	siga := externalService.NewSigaClient(externalService.NewGormTokenStore(db))

	payments := certService.NewPaymentLinker()

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/v1")

	authRoute.AuthRoutes(public, db)
	certRoute.CertificateRoutes(public, db, payments)
	scholarshipRoute.ScholarshipRoutes(public, db)

	// ===================== PRIVATE =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/v1", authMiddleware.AuthMiddleware(db))

	userRoute.UserRoutes(private, db)
	studentRoute.StudentRoutes(private, db, siga)
	gradeRoute.GradeRoutes(private, db, siga)
	reportRoute.ReportRoutes(private, db, siga)
	externalRoute.ExternalRoutes(private, siga)
}
