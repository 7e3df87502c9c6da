package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	externalService "portalpadres_backend/internals/features/external/service"
	"portalpadres_backend/internals/features/students/model"
)

// LookupOutcome says where a student lookup ended up.
type LookupOutcome int

const (
	// LookupFound means SIGA (or the local fallback) returned the student.
	LookupFound LookupOutcome = iota
	// LookupNotFound means neither SIGA nor the local SCE004 copy has the CURP.
	LookupNotFound
	// LookupUpstreamDown means SIGA failed AND the CURP is unknown locally.
	LookupUpstreamDown
)

// Lookup is the result of resolving a CURP+CCT against SIGA with the local
// database as fallback.
type Lookup struct {
	Outcome    LookupOutcome
	Estudiante *externalService.Estudiante
	FromLocal  bool
	// UpstreamErr is the SIGA failure when FromLocal is true or the outcome is
	// LookupUpstreamDown.
	UpstreamErr error
}

// StudentFinder is the one SIGA call the link flow needs.
type StudentFinder interface {
	EstudianteByCURPCCT(ctx context.Context, curp, cct string) (*externalService.Estudiante, error)
}

// LinkService resolves and links students to parent accounts.
type LinkService struct {
	DB   *gorm.DB
	Siga StudentFinder
	Now  func() time.Time
}

func NewLinkService(db *gorm.DB, siga StudentFinder) *LinkService {
	return &LinkService{DB: db, Siga: siga}
}

func (s *LinkService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// LookupStudent asks SIGA for the student and falls back to the local SCE004
// copy when SIGA cannot answer. Each branch is explicit in the outcome so the
// controller can tell "not a student" apart from "SIGA is down".
func (s *LinkService) LookupStudent(ctx context.Context, curp, cct string) (Lookup, error) {
	est, upstreamErr := s.Siga.EstudianteByCURPCCT(ctx, curp, cct)
	if upstreamErr == nil {
		return Lookup{Outcome: LookupFound, Estudiante: est}, nil
	}

	if errors.Is(upstreamErr, externalService.ErrStudentNotFound) {
		// SIGA answered: the student does not exist there. The local copy only
		// lags behind SIGA, so there is nothing to fall back to.
		return Lookup{Outcome: LookupNotFound, UpstreamErr: upstreamErr}, nil
	}

	// SIGA unreachable. A student already mirrored in SCE004 can still be
	// linked; grade and group data stay unknown until SIGA is back.
	var local model.Student
	err := s.DB.WithContext(ctx).Where("al_curp = ?", curp).First(&local).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Lookup{Outcome: LookupUpstreamDown, UpstreamErr: upstreamErr}, nil
	}
	if err != nil {
		return Lookup{}, err
	}

	apmat := ""
	if local.AlApmat != nil {
		apmat = *local.AlApmat
	}
	return Lookup{
		Outcome:   LookupFound,
		FromLocal: true,
		Estudiante: &externalService.Estudiante{
			IdAlumno:        local.AlID,
			CURP:            local.AlCURP,
			Nombre:          local.AlNombre,
			ApellidoPaterno: local.AlAppat,
			ApellidoMaterno: apmat,
			CCT:             cct,
			NombreCT:        "N/A",
			Turno:           "N/A",
			Grado:           "N/A",
			Grupo:           "N/A",
			Estatus:         local.AlEstatus,
		},
		UpstreamErr: upstreamErr,
	}, nil
}

// EnsureLocalStudent guarantees an SCE004 row exists for the looked-up
// student, creating it from the SIGA data when missing. Returns the al_id.
func (s *LinkService) EnsureLocalStudent(ctx context.Context, est *externalService.Estudiante) (int, error) {
	var existing model.Student
	err := s.DB.WithContext(ctx).Where("al_curp = ?", est.CURP).First(&existing).Error
	if err == nil {
		return existing.AlID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	estatus := est.Estatus
	if estatus == "" {
		estatus = model.StudentInscrito
	}
	var apmat *string
	if est.ApellidoMaterno != "" {
		apmat = &est.ApellidoMaterno
	}
	student := model.Student{
		AlID:      est.IdAlumno,
		AlCURP:    est.CURP,
		AlNombre:  est.Nombre,
		AlAppat:   est.ApellidoPaterno,
		AlApmat:   apmat,
		AlEstatus: estatus,
	}
	if err := s.DB.WithContext(ctx).Create(&student).Error; err != nil {
		return 0, err
	}
	return student.AlID, nil
}

// AlreadyLinked reports whether the user already has a (u_id, al_id) link.
func (s *LinkService) AlreadyLinked(ctx context.Context, uid uint, alID int) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&model.StudentParent{}).
		Where("al_id = ? AND u_id = ?", alID, uid).
		Count(&count).Error
	return count > 0, err
}

// LinkToUser writes the (u_id, al_id, relacion) row.
func (s *LinkService) LinkToUser(ctx context.Context, uid uint, alID int, relacion string) error {
	return s.DB.WithContext(ctx).Create(&model.StudentParent{
		AlID:     alID,
		UID:      &uid,
		Relacion: relacion,
	}).Error
}

// Unlink removes the user's link to a student, ErrRecordNotFound when absent.
func (s *LinkService) Unlink(ctx context.Context, uid uint, alID int) error {
	res := s.DB.WithContext(ctx).
		Where("al_id = ? AND u_id = ?", alID, uid).
		Delete(&model.StudentParent{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// OwnsStudent reports whether correo or uid is linked to al_id under any of
// the pp_alumnos layouts.
func (s *LinkService) OwnsStudent(ctx context.Context, uid uint, correo string, alID int) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&model.StudentParent{}).
		Where("al_id = ? AND (u_id = ? OR padre = ? OR madre = ? OR tutor = ?)",
			alID, uid, correo, correo, correo).
		Count(&count).Error
	return count > 0, err
}
