package dto

import (
	"strings"
)

// UpdateUserRequest is a partial profile update; pointers distinguish omit vs null.
type UpdateUserRequest struct {
	Nombre          *string `json:"u_nombre,omitempty" validate:"omitempty,max=100"`
	ApellidoPaterno *string `json:"u_appat,omitempty" validate:"omitempty,max=100"`
	ApellidoMaterno *string `json:"u_apmat,omitempty" validate:"omitempty,max=100"`
	Telefono        *string `json:"u_tel,omitempty" validate:"omitempty,max=20"`
	Domicilio       *string `json:"domicilio,omitempty" validate:"omitempty,max=255"`
	Sexo            *string `json:"sexo,omitempty" validate:"omitempty,oneof=H M"`
}

func (r *UpdateUserRequest) Normalize() {
	upper := func(p **string) {
		if *p != nil {
			v := strings.ToUpper(strings.TrimSpace(**p))
			*p = &v
		}
	}
	upper(&r.Nombre)
	upper(&r.ApellidoPaterno)
	upper(&r.ApellidoMaterno)
	upper(&r.Domicilio)
	if r.Telefono != nil {
		v := strings.TrimSpace(*r.Telefono)
		r.Telefono = &v
	}
}

// ToUpdatesMap builds the column map for a partial GORM update
func (r *UpdateUserRequest) ToUpdatesMap() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.Nombre != nil {
		updates["u_nombre"] = *r.Nombre
	}
	if r.ApellidoPaterno != nil {
		updates["u_appat"] = *r.ApellidoPaterno
	}
	if r.ApellidoMaterno != nil {
		updates["u_apmat"] = *r.ApellidoMaterno
	}
	if r.Telefono != nil {
		updates["u_tel"] = *r.Telefono
	}
	if r.Domicilio != nil {
		updates["domicilio"] = *r.Domicilio
	}
	if r.Sexo != nil {
		updates["sexo"] = *r.Sexo
	}
	return updates
}
