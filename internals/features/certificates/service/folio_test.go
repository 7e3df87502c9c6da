package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextFolioFirstOfRegion(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-I-00001", NextFolio("", "1", now))
	assert.Equal(t, "2025-II-00001", NextFolio("", "2", now))
	assert.Equal(t, "2025-III-00001", NextFolio("", "3", now))
	assert.Equal(t, "2025-IV-00001", NextFolio("", "4", now))
}

func TestNextFolioIncrements(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-IV-00002", NextFolio("2025-IV-00001", "4", now))
	assert.Equal(t, "2025-IV-00100", NextFolio("2025-IV-00099", "4", now))
	assert.Equal(t, "2025-I-12346", NextFolio("2025-I-12345", "1", now))
}

func TestNextFolioYearRollover(t *testing.T) {
	newYear := time.Date(2026, time.January, 2, 9, 0, 0, 0, time.UTC)

	// the sequence restarts when the stored folio belongs to last year
	assert.Equal(t, "2026-IV-00001", NextFolio("2025-IV-04321", "4", newYear))
}

func TestNextFolioMalformedLastFolio(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-IV-00001", NextFolio("garbage", "4", now))
	assert.Equal(t, "2025-IV-00001", NextFolio("2025-IV", "4", now))
	assert.Equal(t, "2025-IV-00001", NextFolio("????-IV-00007", "4", now))
}

func TestNextFolioUnknownRegionFallsBack(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	// unknown regions use the default region's numeral
	assert.Equal(t, "2025-IV-00001", NextFolio("", "9", now))
}
