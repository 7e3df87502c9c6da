package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpperTrim(t *testing.T) {
	assert.Equal(t, "AAPR160106HQTLRNA6", UpperTrim("  aapr160106hqtlrna6 "))
	assert.Equal(t, "", UpperTrim("   "))
}

func TestLowerTrim(t *testing.T) {
	assert.Equal(t, "madre@example.com", LowerTrim(" MADRE@Example.COM "))
}

func TestStripAccents(t *testing.T) {
	assert.Equal(t, "PENA", StripAccents("PEÑA"))
	assert.Equal(t, "MARTINEZ", StripAccents("MARTÍNEZ"))
	assert.Equal(t, "GOMEZ FARIAS", StripAccents("GÓMEZ FARÍAS"))
	assert.Equal(t, "SIN ACENTOS", StripAccents("SIN ACENTOS"))
}
