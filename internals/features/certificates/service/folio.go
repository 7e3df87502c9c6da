package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Region number -> roman numeral used in folios
var regionRoman = map[string]string{
	"1": "I",
	"2": "II",
	"3": "III",
	"4": "IV",
}

// DefaultRegion is used for every new request; school-to-region resolution
// never made it into the legacy portal either.
const DefaultRegion = "4"

// NextFolio computes the folio that follows lastFolio for a region at the
// given time. Format: YEAR-REGIONROMAN-00001. A year rollover, or no prior
// folio, restarts the sequence at 00001.
func NextFolio(lastFolio, region string, now time.Time) string {
	year := now.Year()

	roman, ok := regionRoman[region]
	if !ok {
		roman = regionRoman[DefaultRegion]
	}

	if lastFolio == "" {
		return fmt.Sprintf("%d-%s-00001", year, roman)
	}

	parts := strings.Split(lastFolio, "-")
	if len(parts) != 3 {
		return fmt.Sprintf("%d-%s-00001", year, roman)
	}

	folioYear, err := strconv.Atoi(parts[0])
	if err != nil || folioYear != year {
		return fmt.Sprintf("%d-%s-00001", year, roman)
	}

	seq, err := strconv.Atoi(parts[2])
	if err != nil {
		return fmt.Sprintf("%d-%s-00001", year, roman)
	}

	return fmt.Sprintf("%d-%s-%05d", year, roman, seq+1)
}
