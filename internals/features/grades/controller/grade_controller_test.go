package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gradeModel "portalpadres_backend/internals/features/grades/model"
)

func TestGroupByPeriodKeepsFirstSeenOrder(t *testing.T) {
	grades := []gradeModel.Grade{
		{Materia: "ESPAÑOL", Periodo: "1er Bimestre", Calificacion: 9},
		{Materia: "MATEMATICAS", Periodo: "1er Bimestre", Calificacion: 8.5},
		{Materia: "ESPAÑOL", Periodo: "2do Bimestre", Calificacion: 9.5},
		{Materia: "MATEMATICAS", Periodo: "2do Bimestre", Calificacion: 8},
		{Materia: "HISTORIA", Periodo: "1er Bimestre", Calificacion: 10},
	}

	grouped := groupByPeriod(grades)

	require.Len(t, grouped, 2)
	assert.Equal(t, "1er Bimestre", grouped[0].Periodo)
	assert.Len(t, grouped[0].Calificaciones, 3)
	assert.Equal(t, "2do Bimestre", grouped[1].Periodo)
	assert.Len(t, grouped[1].Calificaciones, 2)
}

func TestGroupByPeriodEmpty(t *testing.T) {
	assert.Empty(t, groupByPeriod(nil))
}
