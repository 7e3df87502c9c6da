package model

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Scholarship represents pp_becas. requisitos is a plain text array; enlaces
// holds [{nombre, url}] objects so new link kinds need no migration.
type Scholarship struct {
	ID          uint           `gorm:"column:id;primaryKey" json:"id"`
	Nombre      string         `gorm:"column:nombre;size:255;not null" json:"nombre"`
	Descripcion string         `gorm:"column:descripcion;type:text" json:"descripcion"`
	Requisitos  pq.StringArray `gorm:"column:requisitos;type:text[]" json:"requisitos"`
	Contacto    string         `gorm:"column:contacto;size:255" json:"contacto"`
	Enlaces     datatypes.JSON `gorm:"column:enlaces;type:jsonb" json:"enlaces,omitempty"`
	Activa      bool           `gorm:"column:activa;default:true" json:"activa"`
}

func (Scholarship) TableName() string {
	return "pp_becas"
}
