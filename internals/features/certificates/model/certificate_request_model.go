package model

import (
	"time"
)

type TramiteStatus string

const (
	TramiteSolicitado   TramiteStatus = "SOLICITADO"
	TramiteSolicitadoSR TramiteStatus = "SOLICITADO SIN RESPONSABLE"
	TramiteFirmado      TramiteStatus = "firmado" // lowercase in the legacy data
	TramiteReimpresion  TramiteStatus = "REIMPRESION"
	TramiteEnProceso    TramiteStatus = "EN PROCESO"
	TramiteRechazado    TramiteStatus = "RECHAZADO"
)

// Terminal statuses: payment/reprint rules apply instead of open-ended blocking
func (s TramiteStatus) IsTerminal() bool {
	return s == TramiteFirmado || s == TramiteReimpresion
}

type TramiteEntregado string

const (
	EntregadoPendiente TramiteEntregado = "PENDIENTE"
	EntregadoPagado    TramiteEntregado = "PAGADO"
	EntregadoEntregado TramiteEntregado = "ENTREGADO"
)

type TipoTramite string

const (
	CertificadoPreescolar TipoTramite = "CERTIFICADO DE PREESCOLAR"
	CertificadoPrimaria   TipoTramite = "CERTIFICADO DE PRIMARIA"
	CertificadoSecundaria TipoTramite = "CERTIFICADO DE SECUNDARIA"
)

func (t TipoTramite) Valid() bool {
	switch t {
	case CertificadoPreescolar, CertificadoPrimaria, CertificadoSecundaria:
		return true
	}
	return false
}

// CertificateRequest represents the legacy tramites1 table. Only the initial
// status (SOLICITADO or REIMPRESION) is ever written here; the back office owns
// every later transition.
type CertificateRequest struct {
	ID               uint             `gorm:"column:id;primaryKey" json:"id"`
	Folio            string           `gorm:"column:folio;size:50;uniqueIndex;not null" json:"folio"`
	NombreAlumno     string           `gorm:"column:nombre_alumno;size:100;not null" json:"nombre_alumno"`
	ApellidoPaterno  string           `gorm:"column:a_paterno;size:100;not null" json:"a_paterno"`
	ApellidoMaterno  *string          `gorm:"column:a_materno;size:100" json:"a_materno,omitempty"`
	Telefono         *string          `gorm:"column:telefono;size:20" json:"telefono,omitempty"`
	Email            string           `gorm:"column:email;size:255" json:"email"`
	CURP             string           `gorm:"column:curp;size:18;index;not null" json:"curp"`
	CCT              string           `gorm:"column:cct;size:20;not null" json:"cct"`
	NombreEscuela    string           `gorm:"column:nombre_esc;size:255" json:"nombre_esc"`
	DomicilioEscuela *string          `gorm:"column:dom_esc;size:255" json:"dom_esc,omitempty"`
	Turno            string           `gorm:"column:turno;size:50" json:"turno"`
	CicloTerminacion string           `gorm:"column:ciclo_terminacion;size:20;not null" json:"ciclo_terminacion"`
	TipoTramite      TipoTramite      `gorm:"column:tipo_tramite;type:varchar(50);not null" json:"tipo_tramite"`
	Usuario          string           `gorm:"column:usuario;size:100" json:"usuario"`
	Foto             string           `gorm:"column:foto;size:255" json:"foto"`
	Zona             string           `gorm:"column:zona;size:50" json:"zona"`
	Sector           string           `gorm:"column:sector;size:50" json:"sector"`
	Fecha            string           `gorm:"column:fecha;size:20" json:"fecha"` // dd-mm-YYYY
	FechaElaborado   *time.Time       `gorm:"column:fecha_elaborado;type:date" json:"fecha_elaborado,omitempty"`
	Status           TramiteStatus    `gorm:"column:status;type:varchar(30);default:'SOLICITADO'" json:"status"`
	Entregado        TramiteEntregado `gorm:"column:entregado;type:varchar(20);default:'PENDIENTE'" json:"entregado"`
	Region           string           `gorm:"column:region;size:10" json:"region"`
	Correccion       string           `gorm:"column:correccion;size:5" json:"correccion"` // SI/NO
	Core             string           `gorm:"column:core;size:255" json:"core"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CertificateRequest) TableName() string {
	return "tramites1"
}

// RequiresPayment is recomputed on every read: a reprint that has not been
// paid for is the only state that owes money.
func (r *CertificateRequest) RequiresPayment() bool {
	return r.Status == TramiteReimpresion && r.Entregado == EntregadoPendiente
}
