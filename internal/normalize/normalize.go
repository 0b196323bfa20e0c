package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NotInformed is the bucket for submissions that carry no reason at all.
const NotInformed = "Não Informado"

// ProductCode strips leading zeros from all-digit codes ("00012026" ->
// "12026"). Anything else is returned trimmed and unchanged.
func ProductCode(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !allDigits(s) {
		return s
	}
	stripped := strings.TrimLeft(s, "0")
	if stripped == "" {
		return "0"
	}
	return stripped
}

// TextField trims and title-cases a free-text value. Blank input maps to
// nil so downstream code can tell "absent" from "present but empty".
func TextField(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	out := cases.Title(language.BrazilianPortuguese).String(s)
	return &out
}

// TextFieldPtr is the nil-safe form of TextField.
func TextFieldPtr(p *string) *string {
	if p == nil {
		return nil
	}
	return TextField(*p)
}

// StripDiacritics decomposes accented characters and drops the combining
// marks: "Paraná" -> "Parana". Used only to build comparison keys, never
// as a display value.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Key builds the case- and diacritic-insensitive lookup key for the
// vocabulary maps.
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(StripDiacritics(s)))
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
