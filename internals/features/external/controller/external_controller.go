package controller

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"portalpadres_backend/internals/features/external/service"
	helper "portalpadres_backend/internals/helpers"
)

type ExternalController struct {
	Client *service.SigaClient
}

func NewExternalController(client *service.SigaClient) *ExternalController {
	return &ExternalController{Client: client}
}

// GetEstudianteByCURPCCT handles GET /external/estudiante/:curp/:cct.
func (ec *ExternalController) GetEstudianteByCURPCCT(c *fiber.Ctx) error {
	curp := helper.UpperTrim(c.Params("curp"))
	cct := helper.UpperTrim(c.Params("cct"))
	if len(curp) != 18 {
		return helper.Error(c, fiber.StatusBadRequest, "La CURP debe tener 18 caracteres")
	}

	est, err := ec.Client.EstudianteByCURPCCT(c.Context(), curp, cct)
	if err != nil {
		return ec.upstreamError(c, "consultar estudiante", err)
	}
	return helper.Success(c, "Estudiante encontrado", est)
}

// GetEstudianteByID handles GET /external/estudiante/:id_alumno.
func (ec *ExternalController) GetEstudianteByID(c *fiber.Ctx) error {
	idAlumno, err := c.ParamsInt("id_alumno")
	if err != nil || idAlumno <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Identificador de alumno inválido")
	}

	est, err := ec.Client.EstudianteByID(c.Context(), idAlumno)
	if err != nil {
		return ec.upstreamError(c, "consultar estudiante", err)
	}
	return helper.Success(c, "Estudiante encontrado", est)
}

// GetBoleta handles GET /external/boleta/:id_alumno and streams the PDF.
func (ec *ExternalController) GetBoleta(c *fiber.Ctx) error {
	idAlumno, err := c.ParamsInt("id_alumno")
	if err != nil || idAlumno <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Identificador de alumno inválido")
	}

	pdf, err := ec.Client.Boleta(c.Context(), idAlumno)
	if err != nil {
		return ec.upstreamError(c, "obtener boleta", err)
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=boleta_%d.pdf", idAlumno))
	return c.Send(pdf)
}

// GetBoletaHistorica handles GET /external/boleta-historica/:id_alumno/:anio_inicio.
func (ec *ExternalController) GetBoletaHistorica(c *fiber.Ctx) error {
	idAlumno, err := c.ParamsInt("id_alumno")
	if err != nil || idAlumno <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Identificador de alumno inválido")
	}
	anioInicio, err := c.ParamsInt("anio_inicio")
	if err != nil || anioInicio < 1990 {
		return helper.Error(c, fiber.StatusBadRequest, "Año de inicio inválido")
	}

	pdf, err := ec.Client.BoletaHistorica(c.Context(), idAlumno, anioInicio)
	if err != nil {
		return ec.upstreamError(c, "obtener boleta histórica", err)
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=boleta_historica_%d_%d.pdf", idAlumno, anioInicio))
	return c.Send(pdf)
}

type solicitudBajaRequest struct {
	IdAlumno     int `json:"idAlumno" validate:"required"`
	IdMotivoBaja int `json:"idMotivoBaja" validate:"required"`
}

// SolicitarBaja handles POST /external/baja.
func (ec *ExternalController) SolicitarBaja(c *fiber.Ctx) error {
	var req solicitudBajaRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	if req.IdAlumno <= 0 || req.IdMotivoBaja <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "idAlumno e idMotivoBaja son requeridos")
	}

	resp, err := ec.Client.SolicitarBaja(c.Context(), req.IdAlumno, req.IdMotivoBaja)
	if err != nil {
		return ec.upstreamError(c, "procesar solicitud de baja", err)
	}
	return helper.Success(c, resp.Mensaje, resp)
}

// GetTiposBaja handles GET /external/catalogo/tipos-de-baja.
func (ec *ExternalController) GetTiposBaja(c *fiber.Ctx) error {
	tipos, err := ec.Client.TiposDeBaja(c.Context())
	if err != nil {
		return ec.upstreamError(c, "obtener catálogo de tipos de baja", err)
	}
	return helper.Success(c, "Catálogo de tipos de baja", tipos)
}

type sigaLoginRequest struct {
	Correo      string `json:"correo"`
	Contrasenia string `json:"contrasenia"`
}

// SigaLogin handles POST /external/auth/login. The returned tokens also land
// in pp_token so later calls reuse the session.
func (ec *ExternalController) SigaLogin(c *fiber.Ctx) error {
	var req sigaLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	if req.Correo == "" || req.Contrasenia == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Correo y contraseña son requeridos")
	}

	pair, err := ec.Client.LoginWith(c.Context(), req.Correo, req.Contrasenia)
	if err != nil {
		if errors.Is(err, service.ErrBadCredentials) {
			return helper.Error(c, fiber.StatusUnauthorized, "Credenciales inválidas")
		}
		return ec.upstreamError(c, "autenticar con SIGA", err)
	}

	if err := ec.Client.Tokens.Store.Save(c.Context(), pair); err != nil {
		log.Printf("[ERROR] guardar token SIGA: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible guardar el token")
	}

	return helper.Success(c, "Autenticación exitosa", fiber.Map{
		"AccessToken":  pair.AccessToken,
		"RefreshToken": pair.RefreshToken,
	})
}

// GetTokenStatus handles GET /external/auth/token-status.
func (ec *ExternalController) GetTokenStatus(c *fiber.Ctx) error {
	status, err := ec.Client.Tokens.Status(c.Context())
	if err != nil {
		log.Printf("[ERROR] verificar token SIGA: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, "No fue posible verificar el token")
	}

	var fecha *string
	if status.FechaRegistro != nil {
		v := status.FechaRegistro.Format("2006-01-02 15:04:05")
		fecha = &v
	}
	return helper.Success(c, status.Message, fiber.Map{
		"token_valid":    status.Valid,
		"token_preview":  status.TokenPreview,
		"fecha_registro": fecha,
		"message":        status.Message,
	})
}

func (ec *ExternalController) upstreamError(c *fiber.Ctx, action string, err error) error {
	if errors.Is(err, service.ErrStudentNotFound) {
		return helper.Error(c, fiber.StatusNotFound, "Estudiante no encontrado en SIGA")
	}
	log.Printf("[ERROR] %s: %v", action, err)
	if errors.Is(err, service.ErrUpstreamUnavailable) {
		return helper.Error(c, fiber.StatusServiceUnavailable,
			"El servicio de SIGA no está disponible por el momento")
	}
	return helper.Error(c, fiber.StatusInternalServerError, "Error al "+action)
}
