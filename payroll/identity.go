package payroll

import (
	"strings"
	"unicode"
)

// IdentityMarker is the handle prefix tutors are referred to with in
// invoice titles and, optionally, in the roster ("@jdoe").
const IdentityMarker = '@'

// NormalizeIdentity strips surrounding whitespace and any leading marker
// characters. Whitespace between leading markers is stripped too, which
// keeps the function idempotent.
func NormalizeIdentity(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return r == IdentityMarker || unicode.IsSpace(r)
	})
}

// IdentityFromTitle extracts the tutor identity from a free-text invoice
// title. The identity is the last whitespace-separated token.
func IdentityFromTitle(title string) string {
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return ""
	}
	return NormalizeIdentity(fields[len(fields)-1])
}
