package editor

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slug derives a series id from a title: diacritics are folded, the text is
// lower-cased, whitespace runs become "-" and anything outside [a-z0-9-] is
// dropped.
func Slug(title string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	for _, word := range strings.Fields(strings.ToLower(folded)) {
		if b.Len() > 0 {
			b.WriteByte('-')
		}
		for _, r := range word {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
