package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"portalpadres_backend/internals/features/certificates/model"
)

func TestCertificateRequestCreateNormalize(t *testing.T) {
	apmat := " lópez "
	req := CertificateRequestCreate{
		NombreAlumno:    " renata ",
		ApellidoPaterno: "alvarez",
		ApellidoMaterno: &apmat,
		Email:           " MADRE@Example.COM ",
		CURP:            " aapr160106hqtlrna6 ",
		CCT:             "22dpr0200g",
		NombreEscuela:   "escuela primaria benito juarez",
		TipoTramite:     "certificado de primaria",
	}

	req.Normalize()

	assert.Equal(t, "RENATA", req.NombreAlumno)
	assert.Equal(t, "ALVAREZ", req.ApellidoPaterno)
	assert.Equal(t, "LÓPEZ", *req.ApellidoMaterno)
	assert.Equal(t, "madre@example.com", req.Email)
	assert.Equal(t, "AAPR160106HQTLRNA6", req.CURP)
	assert.Equal(t, "22DPR0200G", req.CCT)
	assert.Equal(t, "CERTIFICADO DE PRIMARIA", req.TipoTramite)
	assert.Equal(t, "NO", req.Correccion, "correccion defaults to NO")
}

func TestFromCertificateRequestRecomputesPayment(t *testing.T) {
	rec := model.CertificateRequest{
		Folio:     "2025-IV-00001",
		Status:    model.TramiteReimpresion,
		Entregado: model.EntregadoPendiente,
		Region:    "4",
	}
	assert.True(t, FromCertificateRequest(&rec).RequiresPayment)
	assert.Equal(t, "4", FromCertificateRequest(&rec).Region)

	rec.Entregado = model.EntregadoPagado
	assert.False(t, FromCertificateRequest(&rec).RequiresPayment)
}
