package helper

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// UpperTrim normalizes identity fields (CURP, CCT, apellidos) the way the
// legacy portal stores them: trimmed and uppercased.
func UpperTrim(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// LowerTrim normalizes email addresses: trimmed and lowercased.
func LowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// StripAccents removes diacritics ("PEÑA" -> "PENA"); surnames in SCE004 are
// stored without accents.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
