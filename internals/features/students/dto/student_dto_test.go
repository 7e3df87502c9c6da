package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddStudentRequestNormalize(t *testing.T) {
	req := AddStudentRequest{
		CURP:       " aapr160106hqtlrna6 ",
		Apellido:   " peña ",
		CCT:        "22dpr0200g",
		Grupo:      " a ",
		Parentesco: "madre",
	}

	req.Normalize()

	assert.Equal(t, "AAPR160106HQTLRNA6", req.CURP)
	assert.Equal(t, "PENA", req.Apellido, "apellido is uppercased and stripped of accents")
	assert.Equal(t, "22DPR0200G", req.CCT)
	assert.Equal(t, "A", req.Grupo)
	assert.Equal(t, "MADRE", req.Parentesco)
}

func TestLinkStudentRequestDefaultsRelacion(t *testing.T) {
	req := LinkStudentRequest{AlCURP: "aapr160106hqtlrna6"}
	req.Normalize()

	assert.Equal(t, "AAPR160106HQTLRNA6", req.AlCURP)
	assert.Equal(t, "padre", req.Relacion)
}
