package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"portalpadres_backend/internals/configs"
	"portalpadres_backend/internals/features/certificates/model"
	helper "portalpadres_backend/internals/helpers"
)

// Validation failures; the controller maps these to 400 with the message as-is.
var (
	ErrInvalidCURP      = errors.New("La CURP debe tener 18 caracteres")
	ErrCCTOutsideRegion = errors.New("La clave de la escuela no corresponde a Querétaro")
	ErrLevelMismatch    = errors.New("La clave de la escuela no corresponde al nivel solicitado")
	ErrInvalidTipo      = errors.New("Tipo de trámite inválido")
)

// Region prefix every CCT in the state carries.
const cctRegionPrefix = "22"

// CCT level segment (chars 2..4) allowed per document type.
var nivelCCT = map[model.TipoTramite][]string{
	model.CertificadoPreescolar: {"DJN", "PJN", "DCC", "DML", "EJN"},
	model.CertificadoPrimaria:   {"DPR", "PPR", "DPB", "DML", "EPR", "ADG", "NBA"},
	model.CertificadoSecundaria: {"DST", "DES", "DTV", "EST", "ETV"},
}

const (
	freeReprintDaysPaid = 30  // paid or delivered: free again after a month
	freeReprintDaysAny  = 366 // anything else: free again after a year
)

type Outcome string

const (
	OutcomeNew       Outcome = "NEW"
	OutcomeInProcess Outcome = "IN_PROCESS"
)

// EvaluateInput carries the submitted request; identity fields are normalized
// by Evaluate itself.
type EvaluateInput struct {
	CURP             string
	CCT              string
	TipoTramite      model.TipoTramite
	CicloTerminacion string

	NombreAlumno     string
	ApellidoPaterno  string
	ApellidoMaterno  *string
	Telefono         *string
	Email            string
	NombreEscuela    string
	DomicilioEscuela *string
	Turno            string
	Correccion       string
	Core             string
	Foto             string
}

// Decision is the outcome of one submission.
type Decision struct {
	Outcome         Outcome
	Folio           string
	RequiresPayment bool
	PaymentURL      string
	Created         bool
	RecordStatus    model.TramiteStatus // set when Created
	Message         string
}

// Engine applies the certificate eligibility rules.
//
// First request is free; a reprint is free again 30 days after a paid or
// delivered certificate, or 366 days after anything terminal; an unfinished
// request blocks new ones; a hit in the duplicate ledger always charges.
type Engine struct {
	Store    CertificateStore
	Ledger   DuplicateLedger
	Payments PaymentLinker // optional; REGER portal URL when nil
	Now      func() time.Time
}

func NewEngine(store CertificateStore, ledger DuplicateLedger, payments PaymentLinker) *Engine {
	return &Engine{Store: store, Ledger: ledger, Payments: payments}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Evaluate runs the submission through validation, the prior-request rules and
// the duplicate ledger. Unless a prior free request short-circuits it, a folio
// is allocated and the new record persisted.
func (e *Engine) Evaluate(ctx context.Context, in EvaluateInput) (Decision, error) {
	curp := helper.UpperTrim(in.CURP)
	cct := helper.UpperTrim(in.CCT)

	if len(curp) != 18 {
		return Decision{}, ErrInvalidCURP
	}
	if !in.TipoTramite.Valid() {
		return Decision{}, ErrInvalidTipo
	}
	if len(cct) < 5 || cct[:2] != cctRegionPrefix {
		return Decision{}, ErrCCTOutsideRegion
	}
	if !nivelAllowed(in.TipoTramite, cct[2:5]) {
		return Decision{}, ErrLevelMismatch
	}

	prior, err := e.checkExisting(ctx, curp, in.TipoTramite)
	if err != nil {
		return Decision{}, err
	}

	// An unfinished free request blocks a new one; nothing is created.
	if prior.Outcome == OutcomeInProcess && !prior.RequiresPayment {
		prior.Message = fmt.Sprintf(
			"Ya existe un trámite en proceso con folio: %s. Consulta el estatus en la opción 'Estatus del Trámite'.",
			prior.Folio,
		)
		return prior, nil
	}

	isDuplicate, err := e.Ledger.Exists(ctx, cycleStartYear(in.CicloTerminacion), cct, curp)
	if err != nil {
		return Decision{}, err
	}

	requiresPayment := prior.RequiresPayment || isDuplicate

	record, err := e.createRequest(ctx, in, curp, cct, isDuplicate)
	if err != nil {
		return Decision{}, err
	}

	decision := Decision{
		Outcome:         prior.Outcome,
		Folio:           record.Folio,
		RequiresPayment: requiresPayment,
		Created:         true,
		RecordStatus:    record.Status,
	}
	if requiresPayment {
		decision.PaymentURL = e.paymentURL(ctx, record)
		decision.Message = "La solicitud ya ha sido generada, favor de proceder con el pago del trámite."
	} else {
		decision.Message = "La solicitud está en proceso de validación y elaboración. Consulta el estatus con tu folio."
	}
	return decision, nil
}

// checkExisting applies the prior-request rules for (curp, tipo).
func (e *Engine) checkExisting(ctx context.Context, curp string, tipo model.TipoTramite) (Decision, error) {
	count, err := e.Store.CountByCURPAndTipo(ctx, curp, tipo)
	if err != nil {
		return Decision{}, err
	}
	if count == 0 {
		return Decision{Outcome: OutcomeNew}, nil
	}

	terminal, err := e.Store.LatestTerminalByCURPAndTipo(ctx, curp, tipo)
	if errors.Is(err, ErrNotFound) {
		// every prior request is still open
		latest, lerr := e.Store.LatestByCURPAndTipo(ctx, curp, tipo)
		if lerr != nil {
			return Decision{}, lerr
		}
		return Decision{Outcome: OutcomeInProcess, Folio: latest.Folio}, nil
	}
	if err != nil {
		return Decision{}, err
	}

	days := 0
	if terminal.FechaElaborado != nil {
		days = int(e.now().Sub(*terminal.FechaElaborado).Hours() / 24)
	}

	if (terminal.Entregado == model.EntregadoPagado || terminal.Entregado == model.EntregadoEntregado) &&
		days >= freeReprintDaysPaid {
		return Decision{Outcome: OutcomeNew}, nil
	}
	if days >= freeReprintDaysAny {
		return Decision{Outcome: OutcomeNew}, nil
	}

	return Decision{Outcome: OutcomeInProcess, Folio: terminal.Folio, RequiresPayment: true}, nil
}

// createRequest allocates a folio and persists the record. Each attempt runs
// in its own store scope (a savepoint under GORM) so a folio collision can
// roll back alone and be retried exactly once with a fresh allocation.
func (e *Engine) createRequest(ctx context.Context, in EvaluateInput, curp, cct string, isDuplicate bool) (*model.CertificateRequest, error) {
	for attempt := 0; ; attempt++ {
		var record *model.CertificateRequest
		err := e.Store.Attempt(ctx, func(store CertificateStore) error {
			last, ferr := store.LatestFolioByRegion(ctx, DefaultRegion)
			if ferr != nil {
				return ferr
			}
			record = e.buildRecord(in, curp, cct, NextFolio(last, DefaultRegion, e.now()), isDuplicate)
			return store.Create(ctx, record)
		})
		if err == nil {
			return record, nil
		}
		if errors.Is(err, ErrFolioTaken) && attempt == 0 {
			log.Printf("[WARN] folio %s lost the race, reallocating", record.Folio)
			continue
		}
		return nil, err
	}
}

func (e *Engine) buildRecord(in EvaluateInput, curp, cct, folio string, isDuplicate bool) *model.CertificateRequest {
	now := e.now()
	record := &model.CertificateRequest{
		Folio:            folio,
		NombreAlumno:     helper.UpperTrim(in.NombreAlumno),
		ApellidoPaterno:  helper.UpperTrim(in.ApellidoPaterno),
		Telefono:         in.Telefono,
		Email:            helper.LowerTrim(in.Email),
		CURP:             curp,
		CCT:              cct,
		NombreEscuela:    helper.UpperTrim(in.NombreEscuela),
		Turno:            helper.UpperTrim(in.Turno),
		CicloTerminacion: in.CicloTerminacion,
		TipoTramite:      in.TipoTramite,
		Usuario:          "SISCER",
		Foto:             in.Foto,
		Fecha:            now.Format("02-01-2006"),
		Status:           model.TramiteSolicitado,
		Entregado:        model.EntregadoPendiente,
		Region:           DefaultRegion,
		Correccion:       in.Correccion,
		Core:             in.Core,
	}
	if in.ApellidoMaterno != nil {
		v := helper.UpperTrim(*in.ApellidoMaterno)
		record.ApellidoMaterno = &v
	}
	if in.DomicilioEscuela != nil {
		v := helper.UpperTrim(*in.DomicilioEscuela)
		record.DomicilioEscuela = &v
	}
	if isDuplicate {
		// already produced once: admitted directly as a reprint
		record.Status = model.TramiteReimpresion
		elaborado := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		record.FechaElaborado = &elaborado
	}
	return record
}

func (e *Engine) paymentURL(ctx context.Context, record *model.CertificateRequest) string {
	if e.Payments == nil {
		return configs.PaymentPortalURL
	}
	fullName := record.NombreAlumno + " " + record.ApellidoPaterno
	url, err := e.Payments.Link(ctx, record.Folio, fullName, record.Email)
	if err != nil {
		log.Printf("[ERROR] payment link for %s: %v, falling back to portal URL", record.Folio, err)
		return configs.PaymentPortalURL
	}
	return url
}

func nivelAllowed(tipo model.TipoTramite, nivel string) bool {
	for _, allowed := range nivelCCT[tipo] {
		if allowed == nivel {
			return true
		}
	}
	return false
}

// cycleStartYear extracts the leading year from a ciclo like "2023-2024".
func cycleStartYear(ciclo string) string {
	for i := 0; i < len(ciclo); i++ {
		if ciclo[i] == '-' {
			return ciclo[:i]
		}
	}
	return ciclo
}
