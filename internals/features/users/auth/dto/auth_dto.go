package dto

import (
	"strings"

	userModel "portalpadres_backend/internals/features/users/user/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// RegisterRequest is the guardian self-registration body.
type RegisterRequest struct {
	Correo          string  `json:"u_correo" validate:"required,email,max=255"`
	Password        string  `json:"u_pass" validate:"required,min=8"`
	Nombre          string  `json:"u_nombre" validate:"required,max=100"`
	ApellidoPaterno string  `json:"u_appat" validate:"required,max=100"`
	ApellidoMaterno *string `json:"u_apmat,omitempty"`
	Telefono        *string `json:"u_tel,omitempty" validate:"omitempty,max=20"`
	Domicilio       *string `json:"domicilio,omitempty" validate:"omitempty,max=255"`
	Sexo            *string `json:"sexo,omitempty" validate:"omitempty,oneof=H M"`
}

func (r *RegisterRequest) Normalize() {
	r.Correo = strings.TrimSpace(strings.ToLower(r.Correo))
	r.Nombre = strings.ToUpper(strings.TrimSpace(r.Nombre))
	r.ApellidoPaterno = strings.ToUpper(strings.TrimSpace(r.ApellidoPaterno))
	if r.ApellidoMaterno != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.ApellidoMaterno))
		r.ApellidoMaterno = &v
	}
	if r.Domicilio != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.Domicilio))
		r.Domicilio = &v
	}
}

// ToModel builds the user row; the password is hashed by the controller.
func (r *RegisterRequest) ToModel() *userModel.UserModel {
	return &userModel.UserModel{
		Correo:          r.Correo,
		Password:        r.Password,
		Nombre:          r.Nombre,
		ApellidoPaterno: r.ApellidoPaterno,
		ApellidoMaterno: r.ApellidoMaterno,
		Telefono:        r.Telefono,
		Domicilio:       r.Domicilio,
		Sexo:            r.Sexo,
	}
}

type LoginRequest struct {
	Correo   string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Correo = strings.TrimSpace(strings.ToLower(r.Correo))
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
