// Package slug turns display names (factions, units, detachments) into
// stable lower-case identifiers.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases s, strips diacritics and collapses every run of
// characters that is not a letter or digit into a single dash. Leading and
// trailing dashes are trimmed, so "  Adeptus  Astartes! " and
// "adeptus-astartes" both normalize to "adeptus-astartes".
func Normalize(s string) string {
	// A transform chain keeps internal state, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var sb strings.Builder
	sb.Grow(len(folded))
	dash := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

// Equal reports whether a and b normalize to the same slug.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
