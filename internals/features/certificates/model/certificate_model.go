package model

import "time"

// Certificate mirrors the legacy SCE039 table (issued electronic certificates).
// Read-only here; IdEstatus 4 means signed and downloadable.
type Certificate struct {
	ID           uint       `gorm:"column:id;primaryKey" json:"id"`
	AlumnoID     int        `gorm:"column:al_id;not null" json:"al_id"`
	Folio        string     `gorm:"column:folio;size:50;uniqueIndex" json:"folio"`
	FolioSEP     string     `gorm:"column:foliosep;size:50" json:"foliosep"`
	ClaveCCT     string     `gorm:"column:clavecct;size:20" json:"clavecct"`
	Nivel        string     `gorm:"column:nivel;size:50" json:"nivel"`
	CicloEscolar string     `gorm:"column:ciclo_escolar;size:20" json:"ciclo_escolar"`
	Promedio     string     `gorm:"column:promedio;size:10" json:"promedio"`
	FechaEmision *time.Time `gorm:"column:fecha_emision;type:date" json:"fecha_emision,omitempty"`
	IdEstatus    int        `gorm:"column:IdEstatus" json:"IdEstatus"`
}

func (Certificate) TableName() string {
	return "SCE039"
}

const CertificateStatusSigned = 4

// DuplicateRecord is the external duplicate ledger (SCE039_DUPLI): certificates
// already issued once. Read-only; membership forces the reprint fee.
type DuplicateRecord struct {
	CicloInicio string `gorm:"column:ce_inicic;size:10"`
	ClaveCCT    string `gorm:"column:clavecct;size:20"`
	CURP        string `gorm:"column:al_curp;size:18"`
}

func (DuplicateRecord) TableName() string {
	return "SCE039_DUPLI"
}
