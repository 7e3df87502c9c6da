package service

import (
	"context"
	"strings"
)

// StudentGroup is the group a student currently attends.
type StudentGroup struct {
	EgID     int    `gorm:"column:eg_id" json:"-"`
	EgGrado  string `gorm:"column:eg_grado" json:"grado"`
	EgGrupo  string `gorm:"column:eg_grupo" json:"grupo"`
	ClaveCCT string `gorm:"column:clavecct" json:"cct"`
	NombreCT string `gorm:"column:nombrect" json:"escuela"`
	Turno    string `gorm:"column:turno" json:"turno"`
}

// Teacher is one teacher of the student's group.
type Teacher struct {
	Nombre  string `json:"nombre"`
	Materia string `json:"materia"`
	Correo  string `json:"correo"`
}

type teacherRow struct {
	MaNombre string  `gorm:"column:ma_nombre"`
	MaAppat  string  `gorm:"column:ma_appat"`
	MaApmat  *string `gorm:"column:ma_apmat"`
	Materia  string  `gorm:"column:materia"`
	MaCorreo string  `gorm:"column:ma_correo"`
}

// StudentGroupInfo returns the student's group, or nil when SCE002 has none.
func (s *LinkService) StudentGroupInfo(ctx context.Context, alID int) (*StudentGroup, error) {
	var group StudentGroup
	err := s.DB.WithContext(ctx).Raw(`
		SELECT g.eg_id, g.eg_grado, g.eg_grupo, g.clavecct, g.nombrect, g.turno
		FROM "SCE002" g
		INNER JOIN "SCE006" c ON g.eg_id = c.eg_id
		WHERE c.al_id = ?`,
		alID).Scan(&group).Error
	if err != nil {
		return nil, err
	}
	if group.EgID == 0 {
		return nil, nil
	}
	return &group, nil
}

// GroupTeachers lists every teacher assigned to a group, ordered by subject.
func (s *LinkService) GroupTeachers(ctx context.Context, egID int) ([]Teacher, error) {
	var rows []teacherRow
	err := s.DB.WithContext(ctx).Raw(`
		SELECT DISTINCT m.ma_nombre, m.ma_appat, m.ma_apmat,
		       a.as_nombre AS materia, m.ma_correo
		FROM "SCE023" t
		INNER JOIN "SCE034" m ON t.ma_id = m.ma_id
		INNER JOIN "SCE035" a ON t.as_id = a.as_id
		WHERE t.eg_id = ?
		ORDER BY a.as_nombre`,
		egID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	teachers := make([]Teacher, 0, len(rows))
	for _, r := range rows {
		name := r.MaNombre + " " + r.MaAppat
		if r.MaApmat != nil {
			name += " " + *r.MaApmat
		}
		teachers = append(teachers, Teacher{
			Nombre:  strings.TrimSpace(name),
			Materia: r.Materia,
			Correo:  r.MaCorreo,
		})
	}
	return teachers, nil
}
