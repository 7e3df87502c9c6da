package dto

import (
	"time"

	"github.com/go-playground/validator/v10"

	"portalpadres_backend/internals/features/certificates/model"
	"portalpadres_backend/internals/features/certificates/service"
	helper "portalpadres_backend/internals/helpers"
)

// CertificateRequestCreate is the submission body for a new certificate
// request.
type CertificateRequestCreate struct {
	NombreAlumno     string  `json:"nombre_alumno" validate:"required,max=100"`
	ApellidoPaterno  string  `json:"a_paterno" validate:"required,max=100"`
	ApellidoMaterno  *string `json:"a_materno" validate:"omitempty,max=100"`
	Telefono         *string `json:"telefono" validate:"omitempty,max=20"`
	Email            string  `json:"email" validate:"required,email"`
	CURP             string  `json:"curp" validate:"required,len=18"`
	CCT              string  `json:"cct" validate:"required,min=5,max=20"`
	NombreEscuela    string  `json:"nombre_esc" validate:"required,max=255"`
	DomicilioEscuela *string `json:"dom_esc" validate:"omitempty,max=255"`
	Turno            string  `json:"turno" validate:"omitempty,max=50"`
	CicloTerminacion string  `json:"ciclo_terminacion" validate:"required,max=20"`
	TipoTramite      string  `json:"tipo_tramite" validate:"required"`
	Correccion       string  `json:"correccion" validate:"omitempty,oneof=SI NO"`
	Core             string  `json:"core" validate:"omitempty,max=255"`
	Foto             string  `json:"foto" validate:"omitempty,max=255"`
}

// Normalize uppercases the identity fields the legacy tables store in
// uppercase and trims the rest.
func (r *CertificateRequestCreate) Normalize() {
	r.NombreAlumno = helper.UpperTrim(r.NombreAlumno)
	r.ApellidoPaterno = helper.UpperTrim(r.ApellidoPaterno)
	if r.ApellidoMaterno != nil {
		v := helper.UpperTrim(*r.ApellidoMaterno)
		r.ApellidoMaterno = &v
	}
	r.Email = helper.LowerTrim(r.Email)
	r.CURP = helper.UpperTrim(r.CURP)
	r.CCT = helper.UpperTrim(r.CCT)
	r.NombreEscuela = helper.UpperTrim(r.NombreEscuela)
	r.TipoTramite = helper.UpperTrim(r.TipoTramite)
	r.Correccion = helper.UpperTrim(r.Correccion)
	if r.Correccion == "" {
		r.Correccion = "NO"
	}
}

func (r *CertificateRequestCreate) ToEvaluateInput() service.EvaluateInput {
	return service.EvaluateInput{
		CURP:             r.CURP,
		CCT:              r.CCT,
		TipoTramite:      model.TipoTramite(r.TipoTramite),
		CicloTerminacion: r.CicloTerminacion,
		NombreAlumno:     r.NombreAlumno,
		ApellidoPaterno:  r.ApellidoPaterno,
		ApellidoMaterno:  r.ApellidoMaterno,
		Telefono:         r.Telefono,
		Email:            r.Email,
		NombreEscuela:    r.NombreEscuela,
		DomicilioEscuela: r.DomicilioEscuela,
		Turno:            r.Turno,
		Correccion:       r.Correccion,
		Core:             r.Core,
		Foto:             r.Foto,
	}
}

func (r *CertificateRequestCreate) Validate(v *validator.Validate) error {
	return v.Struct(r)
}

// DecisionResponse is what the submit endpoint answers with.
type DecisionResponse struct {
	Outcome         string `json:"outcome"`
	Folio           string `json:"folio,omitempty"`
	RequiresPayment bool   `json:"requires_payment"`
	PaymentURL      string `json:"payment_url,omitempty"`
	Status          string `json:"status,omitempty"`
	Message         string `json:"message"`
}

func FromDecision(d service.Decision) DecisionResponse {
	return DecisionResponse{
		Outcome:         string(d.Outcome),
		Folio:           d.Folio,
		RequiresPayment: d.RequiresPayment,
		PaymentURL:      d.PaymentURL,
		Status:          string(d.RecordStatus),
		Message:         d.Message,
	}
}

// CertificateStatusResponse is one row of the status/list endpoints.
type CertificateStatusResponse struct {
	Folio           string     `json:"folio"`
	NombreAlumno    string     `json:"nombre_alumno"`
	ApellidoPaterno string     `json:"a_paterno"`
	ApellidoMaterno *string    `json:"a_materno,omitempty"`
	CURP            string     `json:"curp"`
	CCT             string     `json:"cct"`
	NombreEscuela   string     `json:"nombre_esc"`
	TipoTramite     string     `json:"tipo_tramite"`
	Status          string     `json:"status"`
	Entregado       string     `json:"entregado"`
	Region          string     `json:"region"`
	Fecha           string     `json:"fecha"`
	FechaElaborado  *time.Time `json:"fecha_elaborado,omitempty"`
	RequiresPayment bool       `json:"requires_payment"`
	CreatedAt       time.Time  `json:"created_at"`
}

func FromCertificateRequest(r *model.CertificateRequest) CertificateStatusResponse {
	return CertificateStatusResponse{
		Folio:           r.Folio,
		NombreAlumno:    r.NombreAlumno,
		ApellidoPaterno: r.ApellidoPaterno,
		ApellidoMaterno: r.ApellidoMaterno,
		CURP:            r.CURP,
		CCT:             r.CCT,
		NombreEscuela:   r.NombreEscuela,
		TipoTramite:     string(r.TipoTramite),
		Status:          string(r.Status),
		Entregado:       string(r.Entregado),
		Region:          r.Region,
		Fecha:           r.Fecha,
		FechaElaborado:  r.FechaElaborado,
		RequiresPayment: r.RequiresPayment(),
		CreatedAt:       r.CreatedAt,
	}
}
