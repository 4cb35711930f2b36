// Package slug derives the public identifiers served in edital URLs.
//
// Allocation is a check-and-suffix loop over candidates; the unique index on
// the slug column remains the final arbiter for races the pre-check cannot
// see.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const Separator = "-"

// NFD exposes the combining marks so accented letters reduce to their ASCII
// base before recomposition.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases the title, strips diacritics and collapses every
// non-alphanumeric run into a single separator, trimming separators from
// both ends. It returns "" when the title has no alphanumeric content; the
// allocator substitutes a fallback base in that case.
func Normalize(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	if out, _, err := transform.String(deaccent, s); err == nil {
		s = out
	}

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteString(Separator)
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}
