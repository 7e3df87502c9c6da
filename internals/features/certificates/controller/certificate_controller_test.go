package controller

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	certDTO "portalpadres_backend/internals/features/certificates/dto"
	"portalpadres_backend/internals/features/certificates/model"
	"portalpadres_backend/internals/features/certificates/service"
)

// fakeReader serves canned tramites1 rows to the query endpoints.
type fakeReader struct {
	byFolio map[string]*model.CertificateRequest
	byCURP  map[string][]model.CertificateRequest
}

func (f *fakeReader) FindByFolio(_ context.Context, folio string) (*model.CertificateRequest, error) {
	if req, ok := f.byFolio[folio]; ok {
		return req, nil
	}
	return nil, service.ErrNotFound
}

func (f *fakeReader) ListByCURP(_ context.Context, curp string) ([]model.CertificateRequest, error) {
	return f.byCURP[curp], nil
}

func newQueryApp(reader service.CertificateReader) *fiber.App {
	app := fiber.New()
	ctrl := &CertificateController{Store: reader}
	app.Get("/certificates/status/:folio", ctrl.GetStatus)
	app.Get("/certificates/list/:curp", ctrl.ListByCURP)
	return app
}

type queryEnvelope struct {
	Code    int                               `json:"code"`
	Status  string                            `json:"status"`
	Message string                            `json:"message"`
	Data    certDTO.CertificateStatusResponse `json:"data"`
}

type listEnvelope struct {
	Code int                                 `json:"code"`
	Data []certDTO.CertificateStatusResponse `json:"data"`
}

func decodeBody(t *testing.T, resp io.Reader, out interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp)
	require.NoError(t, err)
	require.NoError(t, sonic.Unmarshal(body, out))
}

func TestGetStatusUnknownFolio(t *testing.T) {
	app := newQueryApp(&fakeReader{})

	resp, err := app.Test(httptest.NewRequest("GET", "/certificates/status/2025-IV-99999", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetStatusFound(t *testing.T) {
	app := newQueryApp(&fakeReader{byFolio: map[string]*model.CertificateRequest{
		"2025-IV-00042": {
			Folio:       "2025-IV-00042",
			CURP:        "AAPR160106HQTLRNA6",
			TipoTramite: model.CertificadoPrimaria,
			Status:      model.TramiteSolicitado,
			Entregado:   model.EntregadoPendiente,
			Region:      "4",
		},
	}})

	resp, err := app.Test(httptest.NewRequest("GET", "/certificates/status/2025-iv-00042", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var env queryEnvelope
	decodeBody(t, resp.Body, &env)
	assert.Equal(t, "2025-IV-00042", env.Data.Folio)
	assert.Equal(t, "4", env.Data.Region)
	assert.False(t, env.Data.RequiresPayment)
}

func TestListByCURPKeepsStoreOrder(t *testing.T) {
	older := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	app := newQueryApp(&fakeReader{byCURP: map[string][]model.CertificateRequest{
		"AAPR160106HQTLRNA6": {
			{Folio: "2025-IV-00007", CURP: "AAPR160106HQTLRNA6", CreatedAt: newer},
			{Folio: "2024-IV-00003", CURP: "AAPR160106HQTLRNA6", CreatedAt: older},
		},
	}})

	resp, err := app.Test(httptest.NewRequest("GET", "/certificates/list/AAPR160106HQTLRNA6", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var env listEnvelope
	decodeBody(t, resp.Body, &env)
	require.Len(t, env.Data, 2)
	assert.Equal(t, "2025-IV-00007", env.Data[0].Folio)
	assert.Equal(t, "2024-IV-00003", env.Data[1].Folio)
}

func TestListByCURPRejectsShortCURP(t *testing.T) {
	app := newQueryApp(&fakeReader{})

	resp, err := app.Test(httptest.NewRequest("GET", "/certificates/list/AAPR160106", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
