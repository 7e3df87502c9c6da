package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portalpadres_backend/internals/configs"
	"portalpadres_backend/internals/features/certificates/model"
)

// memStore keeps certificate requests in memory, mimicking the tramites1
// ordering the engine relies on. Like postgres after a unique violation, it
// only accepts allocation statements inside an Attempt scope and discards the
// writes of a scope whose fn failed.
type memStore struct {
	requests       []*model.CertificateRequest
	failNextCreate bool
	creates        int
	attempts       int
	inAttempt      bool
}

func (m *memStore) Attempt(_ context.Context, fn func(CertificateStore) error) error {
	m.attempts++
	m.inAttempt = true
	defer func() { m.inAttempt = false }()

	mark := len(m.requests)
	if err := fn(m); err != nil {
		m.requests = m.requests[:mark]
		return err
	}
	return nil
}

func (m *memStore) CountByCURPAndTipo(_ context.Context, curp string, tipo model.TipoTramite) (int64, error) {
	var count int64
	for _, r := range m.requests {
		if r.CURP == curp && r.TipoTramite == tipo {
			count++
		}
	}
	return count, nil
}

func (m *memStore) LatestByCURPAndTipo(_ context.Context, curp string, tipo model.TipoTramite) (*model.CertificateRequest, error) {
	var latest *model.CertificateRequest
	for _, r := range m.requests {
		if r.CURP != curp || r.TipoTramite != tipo {
			continue
		}
		if latest == nil || r.Folio > latest.Folio {
			latest = r
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (m *memStore) LatestTerminalByCURPAndTipo(_ context.Context, curp string, tipo model.TipoTramite) (*model.CertificateRequest, error) {
	var latest *model.CertificateRequest
	for _, r := range m.requests {
		if r.CURP != curp || r.TipoTramite != tipo || !r.Status.IsTerminal() {
			continue
		}
		if latest == nil {
			latest = r
			continue
		}
		switch {
		case latest.FechaElaborado == nil:
			latest = r
		case r.FechaElaborado != nil && r.FechaElaborado.After(*latest.FechaElaborado):
			latest = r
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (m *memStore) LatestFolioByRegion(_ context.Context, region string) (string, error) {
	if !m.inAttempt {
		return "", errors.New("folio read outside an attempt scope")
	}
	last := ""
	for _, r := range m.requests {
		if r.Region == region && r.Folio > last {
			last = r.Folio
		}
	}
	return last, nil
}

func (m *memStore) Create(_ context.Context, req *model.CertificateRequest) error {
	if !m.inAttempt {
		return errors.New("create outside an attempt scope")
	}
	m.creates++
	if m.failNextCreate {
		m.failNextCreate = false
		return ErrFolioTaken
	}
	for _, r := range m.requests {
		if r.Folio == req.Folio {
			return ErrFolioTaken
		}
	}
	m.requests = append(m.requests, req)
	return nil
}

type memLedger struct {
	entries map[string]bool
}

func (m *memLedger) Exists(_ context.Context, cycleStartYear, cct, curp string) (bool, error) {
	return m.entries[cycleStartYear+"|"+cct+"|"+curp], nil
}

type fakePayments struct {
	url   string
	calls int
}

func (p *fakePayments) Link(_ context.Context, folio, fullName, email string) (string, error) {
	p.calls++
	return p.url, nil
}

var testNow = time.Date(2025, time.April, 15, 10, 0, 0, 0, time.UTC)

func newTestEngine(store *memStore, ledger *memLedger, payments PaymentLinker) *Engine {
	e := NewEngine(store, ledger, payments)
	e.Now = func() time.Time { return testNow }
	return e
}

func validInput() EvaluateInput {
	return EvaluateInput{
		CURP:             "AAPR160106HQTLRNA6",
		CCT:              "22DPR0200G",
		TipoTramite:      model.CertificadoPrimaria,
		CicloTerminacion: "2023-2024",
		NombreAlumno:     "Renata",
		ApellidoPaterno:  "Alvarez",
		Email:            "MADRE@example.com",
		NombreEscuela:    "Escuela Primaria Benito Juarez",
		Turno:            "Matutino",
		Correccion:       "NO",
	}
}

func daysAgo(n int) *time.Time {
	t := testNow.AddDate(0, 0, -n)
	return &t
}

func TestEvaluateFirstRequestIsFree(t *testing.T) {
	store := &memStore{}
	engine := newTestEngine(store, &memLedger{}, nil)

	decision, err := engine.Evaluate(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, OutcomeNew, decision.Outcome)
	assert.True(t, decision.Created)
	assert.False(t, decision.RequiresPayment)
	assert.Equal(t, "2025-IV-00001", decision.Folio)
	assert.Equal(t, model.TramiteSolicitado, decision.RecordStatus)

	require.Len(t, store.requests, 1)
	rec := store.requests[0]
	assert.Equal(t, "RENATA", rec.NombreAlumno)
	assert.Equal(t, "madre@example.com", rec.Email)
	assert.Equal(t, "SISCER", rec.Usuario)
	assert.Equal(t, "15-04-2025", rec.Fecha)
	assert.Nil(t, rec.FechaElaborado)
}

func TestEvaluateOpenRequestBlocksWithoutCreating(t *testing.T) {
	store := &memStore{requests: []*model.CertificateRequest{{
		Folio:       "2025-IV-00001",
		CURP:        "AAPR160106HQTLRNA6",
		TipoTramite: model.CertificadoPrimaria,
		Status:      model.TramiteSolicitado,
		Region:      "4",
	}}}
	engine := newTestEngine(store, &memLedger{}, nil)

	decision, err := engine.Evaluate(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, OutcomeInProcess, decision.Outcome)
	assert.False(t, decision.Created)
	assert.False(t, decision.RequiresPayment)
	assert.Equal(t, "2025-IV-00001", decision.Folio)
	assert.Contains(t, decision.Message, "2025-IV-00001")
	assert.Len(t, store.requests, 1)
	assert.Zero(t, store.creates)
}

func TestEvaluateDeliveredOverThirtyDaysIsFreeAgain(t *testing.T) {
	store := &memStore{requests: []*model.CertificateRequest{{
		Folio:          "2025-IV-00001",
		CURP:           "AAPR160106HQTLRNA6",
		TipoTramite:    model.CertificadoPrimaria,
		Status:         model.TramiteFirmado,
		Entregado:      model.EntregadoEntregado,
		FechaElaborado: daysAgo(31),
		Region:         "4",
	}}}
	engine := newTestEngine(store, &memLedger{}, nil)

	decision, err := engine.Evaluate(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, OutcomeNew, decision.Outcome)
	assert.True(t, decision.Created)
	assert.False(t, decision.RequiresPayment)
	assert.Equal(t, "2025-IV-00002", decision.Folio)
}

func TestEvaluateRecentPaidReprintCharges(t *testing.T) {
	store := &memStore{requests: []*model.CertificateRequest{{
		Folio:          "2025-IV-00001",
		CURP:           "AAPR160106HQTLRNA6",
		TipoTramite:    model.CertificadoPrimaria,
		Status:         model.TramiteFirmado,
		Entregado:      model.EntregadoPagado,
		FechaElaborado: daysAgo(10),
		Region:         "4",
	}}}
	payments := &fakePayments{url: "https://pagos.example/link"}
	engine := newTestEngine(store, &memLedger{}, payments)

	decision, err := engine.Evaluate(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, OutcomeInProcess, decision.Outcome)
	assert.True(t, decision.Created)
	assert.True(t, decision.RequiresPayment)
	assert.Equal(t, "https://pagos.example/link", decision.PaymentURL)
	assert.Equal(t, 1, payments.calls)
	assert.Contains(t, decision.Message, "pago")
}

func TestEvaluatePendingTerminalUnderAYearCharges(t *testing.T) {
	store := &memStore{requests: []*model.CertificateRequest{{
		Folio:          "2025-IV-00001",
		CURP:           "AAPR160106HQTLRNA6",
		TipoTramite:    model.CertificadoPrimaria,
		Status:         model.TramiteFirmado,
		Entregado:      model.EntregadoPendiente,
		FechaElaborado: daysAgo(200),
		Region:         "4",
	}}}
	engine := newTestEngine(store, &memLedger{}, nil)

	decision, err := engine.Evaluate(context.Background(), validInput())
	require.NoError(t, err)

	// not delivered nor paid, so the 30 day window does not apply
	assert.True(t, decision.RequiresPayment)
	assert.True(t, decision.Created)
}

func TestEvaluatePendingTerminalOverAYearIsFree(t *testing.T) {
	store := &memStore{requests: []*model.CertificateRequest{{
		Folio:          "2025-IV-00001",
		CURP:           "AAPR160106HQTLRNA6",
		TipoTramite:    model.CertificadoPrimaria,
		Status:         model.TramiteFirmado,
		Entregado:      model.EntregadoPendiente,
		FechaElaborado: daysAgo(366),
		Region:         "4",
	}}}
	engine := newTestEngine(store, &memLedger{}, nil)

	decision, err := engine.Evaluate(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, OutcomeNew, decision.Outcome)
	assert.False(t, decision.RequiresPayment)
}

func TestEvaluateDuplicateLedgerForcesReprint(t *testing.T) {
	configs.PaymentPortalURL = "https://reger.example/portal"
	ledger := &memLedger{entries: map[string]bool{
		"2023|22DPR0200G|AAPR160106HQTLRNA6": true,
	}}
	store := &memStore{}
	engine := newTestEngine(store, ledger, nil)

	decision, err := engine.Evaluate(context.Background(), validInput())
	require.NoError(t, err)

	assert.True(t, decision.RequiresPayment)
	assert.True(t, decision.Created)
	assert.Equal(t, model.TramiteReimpresion, decision.RecordStatus)
	assert.NotEmpty(t, decision.PaymentURL)

	require.Len(t, store.requests, 1)
	rec := store.requests[0]
	require.NotNil(t, rec.FechaElaborado)
	assert.Equal(t, testNow.Year(), rec.FechaElaborado.Year())
	assert.Equal(t, testNow.YearDay(), rec.FechaElaborado.YearDay())
}

func TestEvaluateFolioCollisionRetriesOnce(t *testing.T) {
	store := &memStore{failNextCreate: true}
	engine := newTestEngine(store, &memLedger{}, nil)

	decision, err := engine.Evaluate(context.Background(), validInput())
	require.NoError(t, err)

	assert.True(t, decision.Created)
	assert.Equal(t, 2, store.creates)
	// the retry ran in its own scope, the lost attempt left nothing behind
	assert.Equal(t, 2, store.attempts)
	assert.Len(t, store.requests, 1)
}

func TestEvaluateSecondCollisionGivesUp(t *testing.T) {
	store := &memStore{}
	store.requests = append(store.requests, &model.CertificateRequest{
		Folio:  "2024-IV-00001",
		CURP:   "XXXX000000XXXXXX00",
		Region: "4",
	})
	// a rival wins the folio race on both attempts
	engine := NewEngine(&alwaysCollidingStore{store}, &memLedger{}, nil)
	engine.Now = func() time.Time { return testNow }

	_, err := engine.Evaluate(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrFolioTaken)
	assert.Equal(t, 2, store.attempts)
}

// alwaysCollidingStore fails every Create with a folio collision.
type alwaysCollidingStore struct {
	*memStore
}

func (s *alwaysCollidingStore) Attempt(ctx context.Context, fn func(CertificateStore) error) error {
	return s.memStore.Attempt(ctx, func(CertificateStore) error { return fn(s) })
}

func (s *alwaysCollidingStore) Create(_ context.Context, _ *model.CertificateRequest) error {
	return ErrFolioTaken
}

func TestEvaluateValidation(t *testing.T) {
	engine := newTestEngine(&memStore{}, &memLedger{}, nil)
	ctx := context.Background()

	short := validInput()
	short.CURP = "AAPR160106"
	_, err := engine.Evaluate(ctx, short)
	assert.ErrorIs(t, err, ErrInvalidCURP)

	outside := validInput()
	outside.CCT = "09DPR0200G"
	_, err = engine.Evaluate(ctx, outside)
	assert.ErrorIs(t, err, ErrCCTOutsideRegion)

	wrongLevel := validInput()
	wrongLevel.CCT = "22DST0001K" // secundaria CCT with a primaria request
	_, err = engine.Evaluate(ctx, wrongLevel)
	assert.ErrorIs(t, err, ErrLevelMismatch)

	preescolar := validInput()
	preescolar.TipoTramite = model.CertificadoPreescolar
	preescolar.CCT = "22DPR0200G" // primaria CCT with a preescolar request
	_, err = engine.Evaluate(ctx, preescolar)
	assert.ErrorIs(t, err, ErrLevelMismatch)

	badTipo := validInput()
	badTipo.TipoTramite = model.TipoTramite("CERTIFICADO DE DOCTORADO")
	_, err = engine.Evaluate(ctx, badTipo)
	assert.ErrorIs(t, err, ErrInvalidTipo)
}

func TestEvaluateAcceptsEveryPreescolarCCT(t *testing.T) {
	for _, nivel := range []string{"DJN", "PJN", "DCC", "DML", "EJN"} {
		store := &memStore{}
		engine := newTestEngine(store, &memLedger{}, nil)

		in := validInput()
		in.TipoTramite = model.CertificadoPreescolar
		in.CCT = "22" + nivel + "0001A"

		decision, err := engine.Evaluate(context.Background(), in)
		require.NoError(t, err, nivel)
		assert.True(t, decision.Created, nivel)
	}
}

func TestEvaluateNormalizesBeforeValidating(t *testing.T) {
	store := &memStore{}
	engine := newTestEngine(store, &memLedger{}, nil)

	in := validInput()
	in.CURP = "  aapr160106hqtlrna6 "
	in.CCT = " 22dpr0200g "

	decision, err := engine.Evaluate(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, decision.Created)
	assert.Equal(t, "AAPR160106HQTLRNA6", store.requests[0].CURP)
	assert.Equal(t, "22DPR0200G", store.requests[0].CCT)
}
