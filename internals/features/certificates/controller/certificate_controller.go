package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	certDTO "portalpadres_backend/internals/features/certificates/dto"
	"portalpadres_backend/internals/features/certificates/service"
	helper "portalpadres_backend/internals/helpers"
)

type CertificateController struct {
	DB       *gorm.DB
	Engine   *service.Engine
	Store    service.CertificateReader
	validate *validator.Validate
}

func NewCertificateController(db *gorm.DB, payments service.PaymentLinker) *CertificateController {
	store := service.NewGormCertificateStore(db)
	return &CertificateController{
		DB:       db,
		Engine:   service.NewEngine(store, service.NewGormDuplicateLedger(db), payments),
		Store:    store,
		validate: validator.New(),
	}
}

// SubmitRequest handles POST /certificates/request.
func (cc *CertificateController) SubmitRequest(c *fiber.Ctx) error {
	var req certDTO.CertificateRequestCreate
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}

	req.Normalize()
	if err := req.Validate(cc.validate); err != nil {
		return helper.ValidationError(c, err)
	}

	// The whole submission runs inside one transaction so the folio row lock
	// holds until the new record is committed.
	var decision service.Decision
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		engine := service.NewEngine(
			service.NewGormCertificateStore(tx),
			service.NewGormDuplicateLedger(tx),
			cc.Engine.Payments,
		)
		var evalErr error
		decision, evalErr = engine.Evaluate(c.Context(), req.ToEvaluateInput())
		return evalErr
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCURP),
			errors.Is(err, service.ErrCCTOutsideRegion),
			errors.Is(err, service.ErrLevelMismatch),
			errors.Is(err, service.ErrInvalidTipo):
			return helper.Error(c, fiber.StatusBadRequest, err.Error())
		}
		log.Printf("[ERROR] evaluar trámite %s: %v", req.CURP, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible registrar el trámite")
	}

	code := fiber.StatusOK
	if decision.Created {
		code = fiber.StatusCreated
	}
	return helper.SuccessWithCode(c, code, decision.Message, certDTO.FromDecision(decision))
}

// GetStatus handles GET /certificates/status/:folio.
func (cc *CertificateController) GetStatus(c *fiber.Ctx) error {
	folio := helper.UpperTrim(c.Params("folio"))
	if folio == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Folio requerido")
	}

	req, err := cc.Store.FindByFolio(c.Context(), folio)
	if errors.Is(err, service.ErrNotFound) {
		return helper.Error(c, fiber.StatusNotFound, "No se encontró un trámite con ese folio")
	}
	if err != nil {
		log.Printf("[ERROR] consultar folio %s: %v", folio, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible consultar el trámite")
	}

	return helper.Success(c, "Trámite encontrado", certDTO.FromCertificateRequest(req))
}

// ListByCURP handles GET /certificates/list/:curp.
func (cc *CertificateController) ListByCURP(c *fiber.Ctx) error {
	curp := helper.UpperTrim(c.Params("curp"))
	if len(curp) != 18 {
		return helper.Error(c, fiber.StatusBadRequest, "La CURP debe tener 18 caracteres")
	}

	reqs, err := cc.Store.ListByCURP(c.Context(), curp)
	if err != nil {
		log.Printf("[ERROR] listar trámites %s: %v", curp, err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible consultar los trámites")
	}

	out := make([]certDTO.CertificateStatusResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, certDTO.FromCertificateRequest(&reqs[i]))
	}
	return helper.Success(c, "Trámites encontrados", out)
}

// UploadPhoto handles POST /certificates/photo. The stored path goes into the
// foto field of a later submission.
func (cc *CertificateController) UploadPhoto(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("foto")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Archivo 'foto' requerido")
	}

	path, err := helper.SavePhotoAsWebp("certificados", fileHeader)
	if err != nil {
		log.Printf("[ERROR] guardar foto: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible guardar la fotografía")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Fotografía guardada", fiber.Map{
		"foto": path,
	})
}
