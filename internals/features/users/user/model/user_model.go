package model

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate = validator.New()

type UserStatus string

const (
	UserStatusPendiente UserStatus = "PENDIENTE"
	UserStatusValidado  UserStatus = "VALIDADO"
	UserStatusInactivo  UserStatus = "INACTIVO"
)

// UserModel represents the legacy PP_usuarios table (guardian accounts)
type UserModel struct {
	UID             uint       `gorm:"column:u_id;primaryKey" json:"u_id"`
	Correo          string     `gorm:"column:u_correo;size:255;unique;not null" json:"u_correo" validate:"required,email,max=255"`
	Password        string     `gorm:"column:u_pass;size:255;not null" json:"-" validate:"required,min=8"`
	Estatus         UserStatus `gorm:"column:estatus;type:varchar(20);not null;default:'PENDIENTE'" json:"estatus"`
	Nombre          string     `gorm:"column:u_nombre;size:100;not null" json:"u_nombre" validate:"required,max=100"`
	ApellidoPaterno string     `gorm:"column:u_appat;size:100;not null" json:"u_appat" validate:"required,max=100"`
	ApellidoMaterno *string    `gorm:"column:u_apmat;size:100" json:"u_apmat,omitempty"`
	Telefono        *string    `gorm:"column:u_tel;size:20" json:"u_tel,omitempty"`
	Domicilio       *string    `gorm:"column:domicilio;size:255" json:"domicilio,omitempty"`
	Sexo            *string    `gorm:"column:sexo;size:1" json:"sexo,omitempty" validate:"omitempty,oneof=H M"`
	FechaRegistro   time.Time  `gorm:"column:fecha_registro;autoCreateTime" json:"fecha_registro"`
	FechaValidacion *time.Time `gorm:"column:fecha_validacion" json:"fecha_validacion,omitempty"`
	TokenActivacion *string    `gorm:"column:token_activacion;size:255" json:"-"`
}

func (UserModel) TableName() string {
	return "PP_usuarios"
}

func (u *UserModel) SetDefaultValues() {
	if u.Estatus == "" {
		u.Estatus = UserStatusPendiente
	}
}

// Validate checks the struct against its validate tags
func (u *UserModel) Validate() error {
	u.SetDefaultValues()
	if err := validate.Struct(u); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msg := ""
	for _, fieldErr := range validationErrs {
		switch fieldErr.Tag() {
		case "required":
			msg += fieldErr.Field() + ": es obligatorio.\n"
		case "email":
			msg += fieldErr.Field() + ": formato de correo inválido.\n"
		case "min":
			msg += fieldErr.Field() + ": mínimo " + fieldErr.Param() + " caracteres.\n"
		case "max":
			msg += fieldErr.Field() + ": máximo " + fieldErr.Param() + " caracteres.\n"
		case "oneof":
			msg += fieldErr.Field() + ": debe ser uno de " + fieldErr.Param() + ".\n"
		default:
			msg += fieldErr.Field() + ": formato inválido.\n"
		}
	}
	return errors.New(msg)
}
