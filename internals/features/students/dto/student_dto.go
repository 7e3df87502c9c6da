package dto

import (
	"time"

	"portalpadres_backend/internals/features/students/model"
	helper "portalpadres_backend/internals/helpers"
)

// LinkStudentRequest links an already known student by CURP only.
type LinkStudentRequest struct {
	AlCURP   string `json:"al_curp" validate:"required,len=18"`
	Relacion string `json:"relacion" validate:"omitempty,oneof=padre madre tutor"`
}

func (r *LinkStudentRequest) Normalize() {
	r.AlCURP = helper.UpperTrim(r.AlCURP)
	r.Relacion = helper.LowerTrim(r.Relacion)
	if r.Relacion == "" {
		r.Relacion = "padre"
	}
}

// LinkStudentWithCCTRequest resolves the student against SIGA first.
type LinkStudentWithCCTRequest struct {
	CURP     string `json:"curp" validate:"required,len=18"`
	CCT      string `json:"cct" validate:"required,min=5,max=20"`
	Relacion string `json:"relacion" validate:"omitempty,oneof=padre madre tutor"`
}

func (r *LinkStudentWithCCTRequest) Normalize() {
	r.CURP = helper.UpperTrim(r.CURP)
	r.CCT = helper.UpperTrim(r.CCT)
	r.Relacion = helper.LowerTrim(r.Relacion)
	if r.Relacion == "" {
		r.Relacion = "padre"
	}
}

// AddStudentRequest is the self-service sign-up with full cross-checks.
type AddStudentRequest struct {
	CURP       string `json:"curp" validate:"required,len=18"`
	Apellido   string `json:"apellido" validate:"required,max=100"`
	CCT        string `json:"cct" validate:"required,min=5,max=20"`
	Grupo      string `json:"grupo" validate:"required,max=10"`
	Parentesco string `json:"parentesco" validate:"required,oneof=PADRE MADRE TUTOR padre madre tutor"`
}

func (r *AddStudentRequest) Normalize() {
	r.CURP = helper.UpperTrim(r.CURP)
	// Apellidos in the legacy tables carry no accents.
	r.Apellido = helper.StripAccents(helper.UpperTrim(r.Apellido))
	r.CCT = helper.UpperTrim(r.CCT)
	r.Grupo = helper.UpperTrim(r.Grupo)
	r.Parentesco = helper.UpperTrim(r.Parentesco)
}

// StudentWithEnrollment is one row of the my-students listing.
type StudentWithEnrollment struct {
	AlID              int               `json:"al_id"`
	AlCURP            string            `json:"al_curp"`
	AlNombre          string            `json:"al_nombre"`
	AlAppat           string            `json:"al_appat"`
	AlApmat           *string           `json:"al_apmat,omitempty"`
	AlEstatus         string            `json:"al_estatus"`
	AlFecing          *time.Time        `json:"al_fecing,omitempty"`
	AlFecnac          *time.Time        `json:"al_fecnac,omitempty"`
	CurrentEnrollment *model.Enrollment `json:"current_enrollment,omitempty"`
}

func FromStudent(s *model.Student, enrollment *model.Enrollment) StudentWithEnrollment {
	return StudentWithEnrollment{
		AlID:              s.AlID,
		AlCURP:            s.AlCURP,
		AlNombre:          s.AlNombre,
		AlAppat:           s.AlAppat,
		AlApmat:           s.AlApmat,
		AlEstatus:         s.AlEstatus,
		AlFecing:          s.AlFecing,
		AlFecnac:          s.AlFecnac,
		CurrentEnrollment: enrollment,
	}
}
