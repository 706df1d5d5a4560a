// Package ident derives SQL-safe identifiers from worksheet names and header
// text, so a worksheet called "Umsätze 2026" can become the default target
// table "umsatze_2026" without the operator spelling it out.
package ident

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxLen is PostgreSQL's identifier length limit, the strictest of the
// supported backends.
const maxLen = 63

// Normalize converts arbitrary text into a lowercase ASCII identifier
// suitable for SQL schemas:
//  1. lowercase
//  2. strip accents (NFD → remove Mn → NFC)
//  3. keep [a-z0-9_]; convert space/dash/dot to underscore; drop others
//  4. prefix with underscore when starting with a digit
//  5. fallback to "sheet" if empty
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// Decompose → remove nonspacing marks (accents) → recompose.
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			prevUnderscore = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		default:
			// drop anything else
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "sheet"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return truncate(name)
}

// truncate keeps identifiers within the 63-character limit, preserving the
// start and the (often more distinctive) end of the name.
func truncate(s string) string {
	if len(s) > maxLen {
		return s[:10] + s[len(s)-(maxLen-10):]
	}
	return s
}
