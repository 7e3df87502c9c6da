package service

import (
	"context"
	"errors"

	"portalpadres_backend/internals/features/certificates/model"
)

var (
	// ErrNotFound is returned by store lookups with no matching row.
	ErrNotFound = errors.New("certificates: not found")
	// ErrFolioTaken signals a unique violation on the folio column; the caller
	// retries exactly once with a fresh folio.
	ErrFolioTaken = errors.New("certificates: folio already exists")
)

// CertificateStore is the persisted ledger of certificate requests (tramites1).
type CertificateStore interface {
	// CountByCURPAndTipo counts every prior request for (curp, tipo).
	CountByCURPAndTipo(ctx context.Context, curp string, tipo model.TipoTramite) (int64, error)
	// LatestByCURPAndTipo returns the newest request for (curp, tipo) ordered
	// by folio descending, or ErrNotFound.
	LatestByCURPAndTipo(ctx context.Context, curp string, tipo model.TipoTramite) (*model.CertificateRequest, error)
	// LatestTerminalByCURPAndTipo returns the newest request in a terminal
	// status (firmado/REIMPRESION) ordered by fecha_elaborado descending, or
	// ErrNotFound when none reached a terminal status.
	LatestTerminalByCURPAndTipo(ctx context.Context, curp string, tipo model.TipoTramite) (*model.CertificateRequest, error)
	// LatestFolioByRegion returns the highest folio issued for a region, or ""
	// when the region has none. Implementations must serialize concurrent
	// callers for the same region (row lock) so folio allocation cannot race.
	LatestFolioByRegion(ctx context.Context, region string) (string, error)
	// Create persists a new request; a folio collision maps to ErrFolioTaken.
	Create(ctx context.Context, req *model.CertificateRequest) error
	// Attempt runs fn against a scope whose writes roll back independently of
	// the surrounding work when fn fails. Postgres refuses every statement
	// after a unique violation until the failed work is rolled back, so a
	// Create that loses the folio race can only be retried from a fresh scope.
	Attempt(ctx context.Context, fn func(CertificateStore) error) error
}

// CertificateReader serves the status and listing endpoints.
type CertificateReader interface {
	// FindByFolio returns the request with that folio, or ErrNotFound.
	FindByFolio(ctx context.Context, folio string) (*model.CertificateRequest, error)
	// ListByCURP returns every request for a CURP, newest first.
	ListByCURP(ctx context.Context, curp string) ([]model.CertificateRequest, error)
}

// DuplicateLedger is the read-only SCE039_DUPLI membership check.
type DuplicateLedger interface {
	Exists(ctx context.Context, cycleStartYear, cct, curp string) (bool, error)
}

// PaymentLinker produces the URL a guardian pays the reprint fee at.
type PaymentLinker interface {
	Link(ctx context.Context, folio, fullName, email string) (string, error)
}
