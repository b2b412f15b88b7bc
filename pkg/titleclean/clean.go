// Package titleclean normalizes episode and season titles scraped from video sites.
package titleclean

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// maxAcronymLen is the longest all-caps word kept as is.
const maxAcronymLen = 3

var (
	upper = cases.Upper(language.Und)
	lower = cases.Lower(language.Und)
)

// emoji covers pictographs, dingbats, flags, variation selectors and joiners.
var emoji = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x200d, Hi: 0x200d, Stride: 1},
		{Lo: 0x231a, Hi: 0x231b, Stride: 1},
		{Lo: 0x23cf, Hi: 0x23cf, Stride: 1},
		{Lo: 0x23e9, Hi: 0x23f3, Stride: 1},
		{Lo: 0x23f8, Hi: 0x23fa, Stride: 1},
		{Lo: 0x24c2, Hi: 0x24c2, Stride: 1},
		{Lo: 0x25aa, Hi: 0x25fe, Stride: 1},
		{Lo: 0x2600, Hi: 0x27bf, Stride: 1},
		{Lo: 0x2934, Hi: 0x2935, Stride: 1},
		{Lo: 0x2b05, Hi: 0x2b55, Stride: 1},
		{Lo: 0x3030, Hi: 0x3030, Stride: 1},
		{Lo: 0x303d, Hi: 0x303d, Stride: 1},
		{Lo: 0x3297, Hi: 0x3299, Stride: 1},
		{Lo: 0xfe00, Hi: 0xfe0f, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1f000, Hi: 0x1faff, Stride: 1},
		{Lo: 0xe0020, Hi: 0xe007f, Stride: 1}, // tag sequences
	},
}

var stripEmoji = runes.Remove(runes.In(emoji))

// Clean removes emoji, collapses whitespace and capitalizes each word.
// Upper-case words of up to three letters are treated as acronyms and kept.
func Clean(text string) string {
	s, _, err := transform.String(stripEmoji, text)
	if err != nil {
		s = text
	}

	words := strings.Fields(s)
	for i, w := range words {
		if isAcronym(w) {
			continue
		}
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return upper.String(w[:size]) + lower.String(w[size:])
}

// isAcronym reports whether w is short, has a cased letter and no lower-case ones.
func isAcronym(w string) bool {
	if utf8.RuneCountInString(w) > maxAcronymLen {
		return false
	}
	cased := false
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}
