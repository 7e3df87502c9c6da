package model

// Grade represents the legacy SCE006 table. eg_id ties the row to the SCE002
// group the grade was earned in.
type Grade struct {
	ID            uint    `gorm:"column:id;primaryKey" json:"id"`
	AlID          int     `gorm:"column:al_id;index;not null" json:"al_id"`
	MatriculaID   int     `gorm:"column:matricula_id;not null" json:"matricula_id"`
	EgID          int     `gorm:"column:eg_id;index" json:"-"`
	Materia       string  `gorm:"column:materia;size:100" json:"materia"`
	Periodo       string  `gorm:"column:periodo;size:50" json:"periodo"`
	Calificacion  float64 `gorm:"column:calificacion;type:decimal(5,2)" json:"calificacion"`
	Observaciones *string `gorm:"column:observaciones;type:text" json:"observaciones,omitempty"`
}

func (Grade) TableName() string {
	return "SCE006"
}
