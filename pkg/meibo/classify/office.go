// Package classify decides whether a fragment is an office header or a
// position header, and splits a leading title off a combined line.
package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/cognicore/meibo/pkg/meibo/lookup"
	"github.com/cognicore/meibo/pkg/meibo/normalize"
	"github.com/cognicore/meibo/pkg/meibo/vocab"
)

// DefaultMaxOfficeLen bounds the suffix rule: headers are short.
const DefaultMaxOfficeLen = 15

// OfficeClassifier recognises office headers.
type OfficeClassifier struct {
	Headers     *lookup.Headers
	Suffixes    []string
	ChiefSuffix rune
	MaxLen      int
}

// NewOfficeClassifier builds a classifier over the known headers and the
// vocabulary's office suffixes.
func NewOfficeClassifier(headers *lookup.Headers, v vocab.Vocabulary) *OfficeClassifier {
	return &OfficeClassifier{
		Headers:     headers,
		Suffixes:    v.OfficeSuffixes,
		ChiefSuffix: vocab.ChiefSuffix,
		MaxLen:      DefaultMaxOfficeLen,
	}
}

// IsHeader reports exact membership in the known headers.
func (c *OfficeClassifier) IsHeader(text string) bool {
	return c.Headers.Contains(text)
}

// IsOffice reports whether text is a known header, or a short line
// ending in an office suffix that is not a chief title (課 but not 課長).
func (c *OfficeClassifier) IsOffice(text string) bool {
	if c.IsHeader(text) {
		return true
	}
	text = lookup.StripCircles(normalize.Compact(text))
	if text == "" {
		return false
	}
	maxLen := c.MaxLen
	if maxLen <= 0 {
		maxLen = DefaultMaxOfficeLen
	}
	if utf8.RuneCountInString(text) >= maxLen {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(text)
	if last == c.ChiefSuffix {
		return false
	}
	for _, s := range c.Suffixes {
		if s != "" && strings.HasSuffix(text, s) {
			return true
		}
	}
	return false
}
