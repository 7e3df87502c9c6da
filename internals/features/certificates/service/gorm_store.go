package service

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portalpadres_backend/internals/features/certificates/model"
)

// GormCertificateStore backs CertificateStore with the tramites1 table.
type GormCertificateStore struct {
	DB *gorm.DB
}

func NewGormCertificateStore(db *gorm.DB) *GormCertificateStore {
	return &GormCertificateStore{DB: db}
}

func (s *GormCertificateStore) CountByCURPAndTipo(ctx context.Context, curp string, tipo model.TipoTramite) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&model.CertificateRequest{}).
		Where("curp = ? AND tipo_tramite = ?", curp, tipo).
		Count(&count).Error
	return count, err
}

func (s *GormCertificateStore) LatestByCURPAndTipo(ctx context.Context, curp string, tipo model.TipoTramite) (*model.CertificateRequest, error) {
	var req model.CertificateRequest
	err := s.DB.WithContext(ctx).
		Where("curp = ? AND tipo_tramite = ?", curp, tipo).
		Order("folio DESC").
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *GormCertificateStore) LatestTerminalByCURPAndTipo(ctx context.Context, curp string, tipo model.TipoTramite) (*model.CertificateRequest, error) {
	var req model.CertificateRequest
	err := s.DB.WithContext(ctx).
		Where("curp = ? AND tipo_tramite = ? AND status IN ?", curp, tipo,
			[]model.TramiteStatus{model.TramiteFirmado, model.TramiteReimpresion}).
		Order("fecha_elaborado DESC").
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// LatestFolioByRegion takes a row lock on the latest folio so concurrent
// submissions for the same region serialize instead of reading the same value.
func (s *GormCertificateStore) LatestFolioByRegion(ctx context.Context, region string) (string, error) {
	var req model.CertificateRequest
	err := s.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("region = ?", region).
		Order("folio DESC").
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return req.Folio, nil
}

func (s *GormCertificateStore) Create(ctx context.Context, req *model.CertificateRequest) error {
	err := s.DB.WithContext(ctx).Create(req).Error
	if err != nil && isUniqueViolation(err) {
		return ErrFolioTaken
	}
	return err
}

// Attempt runs fn inside a nested transaction, which GORM maps to a savepoint
// when the store is already transaction-scoped. A failed Create rolls back to
// the savepoint, so the retry's statements still run on the live transaction.
func (s *GormCertificateStore) Attempt(ctx context.Context, fn func(CertificateStore) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormCertificateStore(tx))
	})
}

// FindByFolio is used by the status endpoint.
func (s *GormCertificateStore) FindByFolio(ctx context.Context, folio string) (*model.CertificateRequest, error) {
	var req model.CertificateRequest
	err := s.DB.WithContext(ctx).Where("folio = ?", folio).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByCURP returns every request for a CURP, newest first. Unpaginated:
// per-family record counts stay small.
func (s *GormCertificateStore) ListByCURP(ctx context.Context, curp string) ([]model.CertificateRequest, error) {
	var reqs []model.CertificateRequest
	err := s.DB.WithContext(ctx).
		Where("curp = ?", curp).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// The connection opens with TranslateError, so the driver's SQLSTATE 23505
// surfaces as gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// GormDuplicateLedger backs DuplicateLedger with SCE039_DUPLI.
type GormDuplicateLedger struct {
	DB *gorm.DB
}

func NewGormDuplicateLedger(db *gorm.DB) *GormDuplicateLedger {
	return &GormDuplicateLedger{DB: db}
}

func (l *GormDuplicateLedger) Exists(ctx context.Context, cycleStartYear, cct, curp string) (bool, error) {
	var count int64
	err := l.DB.WithContext(ctx).Model(&model.DuplicateRecord{}).
		Where("ce_inicic = ? AND clavecct = ? AND al_curp = ?", cycleStartYear, cct, curp).
		Count(&count).Error
	return count > 0, err
}
