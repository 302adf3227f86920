// Package normalize canonicalizes free-text worker names so the
// roster and the ledger can be joined on name even when the form was
// filled in with accents, stray punctuation or uneven spacing.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and drops the combining marks, so
// "joão" becomes "joao" before the ASCII filter below.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Clean returns the canonical lookup key for a worker name: marks
// stripped, everything outside [A-Za-z0-9 ] removed, whitespace runs
// collapsed to one space, trimmed, upper-cased. Empty input yields
// the empty string. Clean is idempotent.
func Clean(raw string) string {
	if raw == "" {
		return ""
	}

	s, _, err := transform.String(stripMarks, raw)
	if err != nil {
		// Malformed input still gets the ASCII filter below.
		s = raw
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(unicode.ToUpper(r))
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
