package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCycleStartYear(t *testing.T) {
	// the school cycle runs August through July
	cases := []struct {
		date time.Time
		want int
	}{
		{time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), 2024},
		{time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC), 2024},
		{time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC), 2025},
		{time.Date(2025, time.December, 20, 0, 0, 0, 0, time.UTC), 2025},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cycleStartYear(tc.date), "date %s", tc.date)
	}
}

func TestOlderFirst(t *testing.T) {
	// positions 4..5 of a CURP are the two-digit birth year
	older := "AAPR140106HQTLRNA6"   // born 2014
	younger := "AAPR160106HQTLRNA6" // born 2016

	assert.True(t, olderFirst(older, younger))
	assert.False(t, olderFirst(younger, older))
}

func TestOlderFirstShortCURPFallsBackToLexical(t *testing.T) {
	assert.True(t, olderFirst("ABC", "XYZ"))
	assert.False(t, olderFirst("XYZ", "ABC"))
}
