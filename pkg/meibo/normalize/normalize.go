package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Text applies NFKC normalization, drops control characters and trims
// surrounding whitespace. Full-width Latin letters and digits fold to
// ASCII and half-width katakana widens, which is what the classifiers
// expect.
func Text(s string) string {
	normed := norm.NFKC.String(s)
	normed = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return strings.TrimSpace(normed)
}

// Compact is Text with every space removed, ASCII and ideographic.
// Title and header matching always runs on compact text.
func Compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, Text(s))
}

// RuneLen returns the number of characters in s.
func RuneLen(s string) int {
	return len([]rune(s))
}
