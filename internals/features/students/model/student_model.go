package model

import "time"

// Student statuses as SCE004 stores them.
const (
	StudentInscrito = "I"
	StudentBaja     = "B"
	StudentAdeudo   = "A"
	StudentEgresado = "E"
)

// Student represents the legacy SCE004 table. al_id comes from the control
// escolar system, never from a local sequence.
type Student struct {
	AlID      int        `gorm:"column:al_id;primaryKey" json:"al_id"`
	AlCURP    string     `gorm:"column:al_curp;size:18;uniqueIndex;not null" json:"al_curp"`
	AlNombre  string     `gorm:"column:al_nombre;size:100;not null" json:"al_nombre"`
	AlAppat   string     `gorm:"column:al_appat;size:100;not null" json:"al_appat"`
	AlApmat   *string    `gorm:"column:al_apmat;size:100" json:"al_apmat,omitempty"`
	AlEstatus string     `gorm:"column:al_estatus;size:1;default:'I'" json:"al_estatus"`
	AlFecing  *time.Time `gorm:"column:al_fecing;type:date" json:"al_fecing,omitempty"`
	AlFecnac  *time.Time `gorm:"column:al_fecnac;type:date" json:"al_fecnac,omitempty"`
}

func (Student) TableName() string {
	return "SCE004"
}

// Enrollment represents the legacy SCE005 table.
type Enrollment struct {
	MatriculaID  int    `gorm:"column:matricula_id;primaryKey" json:"matricula_id"`
	AlID         int    `gorm:"column:al_id;index;not null" json:"al_id"`
	ClaveCCT     string `gorm:"column:clavecct;size:20;not null" json:"clavecct"`
	Nivel        string `gorm:"column:nivel;size:50" json:"nivel"`
	EgGrado      string `gorm:"column:eg_grado;size:10" json:"eg_grado"`
	EgGrupo      string `gorm:"column:eg_grupo;size:10" json:"eg_grupo"`
	Turno        string `gorm:"column:turno;size:20" json:"turno"`
	CicloEscolar string `gorm:"column:ciclo_escolar;size:20" json:"ciclo_escolar"`
}

func (Enrollment) TableName() string {
	return "SCE005"
}

// StudentParent represents pp_alumnos. The table carries both the simple
// (u_id, relacion) link and the per-relationship email columns the portal
// stores on self-service sign-up, so both layouts live here.
type StudentParent struct {
	ID        uint    `gorm:"column:id;primaryKey" json:"id"`
	AlID      int     `gorm:"column:al_id;index;not null" json:"al_id"`
	UID       *uint   `gorm:"column:u_id;index" json:"u_id,omitempty"`
	Relacion  string  `gorm:"column:relacion;size:20" json:"relacion"`
	AlCURP    string  `gorm:"column:al_curp;size:18;index" json:"al_curp"`
	AlNombre  string  `gorm:"column:al_nombre;size:100" json:"al_nombre"`
	AlAppat   string  `gorm:"column:al_appat;size:100" json:"al_appat"`
	AlApmat   *string `gorm:"column:al_apmat;size:100" json:"al_apmat,omitempty"`
	Padre     *string `gorm:"column:padre;size:255" json:"padre,omitempty"`
	Madre     *string `gorm:"column:madre;size:255" json:"madre,omitempty"`
	Tutor     *string `gorm:"column:tutor;size:255" json:"tutor,omitempty"`
	FechaAlta string  `gorm:"column:fecha_alta;size:20" json:"fecha_alta"` // dd-mm-YYYY
	Estatus   string  `gorm:"column:estatus;size:1;default:'A'" json:"estatus"`
}

func (StudentParent) TableName() string {
	return "pp_alumnos"
}

// LinkedAs reports the relationship under which the given email is already
// linked, or "".
func (p *StudentParent) LinkedAs(correo string) string {
	switch {
	case p.Padre != nil && *p.Padre == correo:
		return "PADRE"
	case p.Madre != nil && *p.Madre == correo:
		return "MADRE"
	case p.Tutor != nil && *p.Tutor == correo:
		return "TUTOR"
	}
	return ""
}

// Sibling represents pp_hermanos. Rows are stored older student first; the
// al_* columns hold the older sibling and the her_* columns the younger one.
type Sibling struct {
	HID      uint    `gorm:"column:h_id;primaryKey" json:"h_id"`
	AlID     int     `gorm:"column:al_id;index;not null" json:"al_id"`
	AlCURP   string  `gorm:"column:al_curp;size:18" json:"al_curp"`
	AlNombre string  `gorm:"column:al_nombre;size:100" json:"al_nombre"`
	AlAppat  string  `gorm:"column:al_appat;size:100" json:"al_appat"`
	AlApmat  *string `gorm:"column:al_apmat;size:100" json:"al_apmat,omitempty"`
	AlCCT    string  `gorm:"column:al_cct;size:20" json:"al_cct"`
	AlGrado  string  `gorm:"column:al_grado;size:10" json:"al_grado"`
	AlGrupo  string  `gorm:"column:al_grupo;size:10" json:"al_grupo"`

	HerID     int     `gorm:"column:her_id;index;not null" json:"her_id"`
	HerCURP   string  `gorm:"column:her_curp;size:18" json:"her_curp"`
	HerNombre string  `gorm:"column:her_nombre;size:100" json:"her_nombre"`
	HerAppat  string  `gorm:"column:her_appat;size:100" json:"her_appat"`
	HerApmat  *string `gorm:"column:her_apmat;size:100" json:"her_apmat,omitempty"`
	HerCCT    string  `gorm:"column:her_cct;size:20" json:"her_cct"`
	HerGrado  string  `gorm:"column:her_grado;size:10" json:"her_grado"`
	HerGrupo  string  `gorm:"column:her_grupo;size:10" json:"her_grupo"`
}

func (Sibling) TableName() string {
	return "pp_hermanos"
}
