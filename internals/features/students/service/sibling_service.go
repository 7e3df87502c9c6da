package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"portalpadres_backend/internals/features/students/model"
)

var (
	// ErrStudentNotEnrolled means no SCE004 row matched the CURP plus the
	// apellido/CCT/grupo cross-check.
	ErrStudentNotEnrolled = errors.New("students: estudiante no encontrado")
	// ErrAlreadyLinked means the account already holds this student under the
	// requested relationship.
	ErrAlreadyLinked = errors.New("students: estudiante ya vinculado")
)

// cycleStartYear maps a calendar date to the starting year of the school
// cycle it belongs to. August starts a new cycle, so anything up to July
// still belongs to the cycle that started the year before.
func cycleStartYear(now time.Time) int {
	year := now.Year()
	if now.Month() <= time.July {
		year--
	}
	return year
}

// olderFirst reports whether curpA belongs to the older student. Characters
// 4..5 of a CURP are the two-digit birth year.
func olderFirst(curpA, curpB string) bool {
	if len(curpA) < 6 || len(curpB) < 6 {
		return curpA < curpB
	}
	return curpA[4:6] < curpB[4:6]
}

// EnrolledStudent is one row of the SCE004/SCE006/SCE002 enrollment join.
type EnrolledStudent struct {
	AlID     int     `gorm:"column:al_id"`
	AlCURP   string  `gorm:"column:al_curp"`
	AlNombre string  `gorm:"column:al_nombre"`
	AlAppat  string  `gorm:"column:al_appat"`
	AlApmat  *string `gorm:"column:al_apmat"`
	EgGrado  string  `gorm:"column:eg_grado"`
	ClaveCCT string  `gorm:"column:clavecct"`
	EgGrupo  string  `gorm:"column:eg_grupo"`
}

func (e *EnrolledStudent) apmat() string {
	if e.AlApmat == nil {
		return ""
	}
	return *e.AlApmat
}

// FindEnrolled looks the student up in the control escolar tables, cross
// checking apellido, CCT and grupo so a guardian cannot link an arbitrary
// CURP.
func (s *LinkService) FindEnrolled(ctx context.Context, curp, apellido, cct, grupo string) (*EnrolledStudent, error) {
	var row EnrolledStudent
	err := s.DB.WithContext(ctx).Raw(`
		SELECT s.al_curp, s.al_appat, s.al_apmat, s.al_nombre, s.al_id,
		       g.eg_grado, g.clavecct, g.eg_grupo
		FROM "SCE002" g
		INNER JOIN "SCE006" c ON g.eg_id = c.eg_id
		INNER JOIN "SCE004" s ON c.al_id = s.al_id
		WHERE s.al_curp = ? AND s.al_appat = ? AND g.clavecct = ? AND g.eg_grupo = ?
		  AND s.al_estatus IN ('I', 'A', 'E', 'B')
		GROUP BY s.al_curp, s.al_appat, s.al_apmat, s.al_nombre, s.al_id,
		         g.eg_grado, g.clavecct, g.eg_grupo`,
		curp, apellido, cct, grupo).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.AlID == 0 {
		return nil, ErrStudentNotEnrolled
	}
	return &row, nil
}

// groupInCycle fetches a linked student's group for the given cycle start
// year; nil when the student has no enrollment that cycle.
func (s *LinkService) groupInCycle(ctx context.Context, alID, year int) (*EnrolledStudent, error) {
	var row EnrolledStudent
	err := s.DB.WithContext(ctx).Raw(`
		SELECT s.al_id, s.al_curp, g.eg_grado, g.eg_grupo, g.clavecct
		FROM "SCE002" g
		INNER JOIN "SCE006" c ON g.eg_id = c.eg_id
		INNER JOIN "SCE004" s ON c.al_id = s.al_id
		WHERE s.al_id = ? AND g.ce_inicic = ?`,
		alID, fmt.Sprintf("%d", year)).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.AlID == 0 {
		return nil, nil
	}
	return &row, nil
}

// DetectSiblings compares the newcomer against every student already linked
// to the guardian's email. Shared apellidos mean siblings; each detected pair
// is stored once in pp_hermanos with the older student in the al_ columns.
// Returns the display names of the newly recorded siblings.
func (s *LinkService) DetectSiblings(ctx context.Context, correo string, newcomer *EnrolledStudent) ([]string, error) {
	var linked []model.StudentParent
	err := s.DB.WithContext(ctx).
		Where("padre = ? OR madre = ? OR tutor = ?", correo, correo, correo).
		Find(&linked).Error
	if err != nil {
		return nil, err
	}

	year := cycleStartYear(s.now())
	var detected []string

	for _, sib := range linked {
		sameApmat := (sib.AlApmat == nil && newcomer.AlApmat == nil) ||
			(sib.AlApmat != nil && newcomer.AlApmat != nil && *sib.AlApmat == *newcomer.AlApmat)
		if sib.AlAppat != newcomer.AlAppat || !sameApmat {
			continue
		}

		group, err := s.groupInCycle(ctx, sib.AlID, year)
		if err != nil {
			return nil, err
		}
		if group == nil {
			continue
		}

		sibEnrolled := &EnrolledStudent{
			AlID:     sib.AlID,
			AlCURP:   sib.AlCURP,
			AlNombre: sib.AlNombre,
			AlAppat:  sib.AlAppat,
			AlApmat:  sib.AlApmat,
			EgGrado:  group.EgGrado,
			ClaveCCT: group.ClaveCCT,
			EgGrupo:  group.EgGrupo,
		}

		older, younger := newcomer, sibEnrolled
		if !olderFirst(newcomer.AlCURP, sib.AlCURP) {
			older, younger = sibEnrolled, newcomer
		}

		created, err := s.recordSiblingPair(ctx, older, younger)
		if err != nil {
			return nil, err
		}
		if created {
			detected = append(detected, sib.AlNombre+" "+sib.AlAppat)
		}
	}
	return detected, nil
}

func (s *LinkService) recordSiblingPair(ctx context.Context, older, younger *EnrolledStudent) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&model.Sibling{}).
		Where("al_id = ? AND her_id = ?", older.AlID, younger.AlID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	row := model.Sibling{
		AlID:     older.AlID,
		AlCURP:   older.AlCURP,
		AlNombre: older.AlNombre,
		AlAppat:  older.AlAppat,
		AlApmat:  older.AlApmat,
		AlCCT:    older.ClaveCCT,
		AlGrado:  older.EgGrado,
		AlGrupo:  older.EgGrupo,

		HerID:     younger.AlID,
		HerCURP:   younger.AlCURP,
		HerNombre: younger.AlNombre,
		HerAppat:  younger.AlAppat,
		HerApmat:  younger.AlApmat,
		HerCCT:    younger.ClaveCCT,
		HerGrado:  younger.EgGrado,
		HerGrupo:  younger.EgGrupo,
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return false, err
	}
	return true, nil
}

// AddStudentResult is what the self-service sign-up flow reports back.
type AddStudentResult struct {
	Student  *EnrolledStudent
	Siblings []string
}

// AddStudent runs the full self-service flow: re-link an existing pp_alumnos
// row under a new relationship, or validate the student against the control
// escolar tables, detect siblings, and register the link.
func (s *LinkService) AddStudent(ctx context.Context, correo, curp, apellido, cct, grupo, parentesco string) (*AddStudentResult, error) {
	var existing model.StudentParent
	err := s.DB.WithContext(ctx).Where("al_curp = ?", curp).First(&existing).Error
	if err == nil {
		if rel := existing.LinkedAs(correo); rel == parentesco {
			return nil, fmt.Errorf("%w como %s", ErrAlreadyLinked, rel)
		}
		column := relationColumn(parentesco)
		err = s.DB.WithContext(ctx).Model(&model.StudentParent{}).
			Where("al_id = ?", existing.AlID).
			Update(column, correo).Error
		if err != nil {
			return nil, err
		}
		return &AddStudentResult{Student: &EnrolledStudent{
			AlID:     existing.AlID,
			AlCURP:   existing.AlCURP,
			AlNombre: existing.AlNombre,
			AlAppat:  existing.AlAppat,
			AlApmat:  existing.AlApmat,
		}}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrolled, err := s.FindEnrolled(ctx, curp, apellido, cct, grupo)
	if err != nil {
		return nil, err
	}

	siblings, err := s.DetectSiblings(ctx, correo, enrolled)
	if err != nil {
		return nil, err
	}

	row := model.StudentParent{
		AlID:      enrolled.AlID,
		AlCURP:    enrolled.AlCURP,
		AlNombre:  enrolled.AlNombre,
		AlAppat:   enrolled.AlAppat,
		AlApmat:   enrolled.AlApmat,
		FechaAlta: s.now().Format("02-01-2006"),
		Estatus:   "A",
	}
	setRelation(&row, parentesco, correo)
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}

	return &AddStudentResult{Student: enrolled, Siblings: siblings}, nil
}

func relationColumn(parentesco string) string {
	switch parentesco {
	case "PADRE":
		return "padre"
	case "MADRE":
		return "madre"
	default:
		return "tutor"
	}
}

func setRelation(row *model.StudentParent, parentesco, correo string) {
	switch parentesco {
	case "PADRE":
		row.Padre = &correo
	case "MADRE":
		row.Madre = &correo
	default:
		row.Tutor = &correo
	}
}
