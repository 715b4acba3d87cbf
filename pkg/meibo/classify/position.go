package classify

import (
	"strings"

	"github.com/cognicore/meibo/pkg/meibo/fragment"
	"github.com/cognicore/meibo/pkg/meibo/lookup"
	"github.com/cognicore/meibo/pkg/meibo/metadata"
	"github.com/cognicore/meibo/pkg/meibo/normalize"
)

// UnknownPosition is the placeholder the v2 extractor writes when it
// matched no title.
const UnknownPosition = "Unknown"

const remainderCutset = " ,、，　"

// Split is a combined line cut into its leading title and the rest.
type Split struct {
	Title     string
	Grade     string // grade token that preceded the title, if any
	Remainder string
	OK        bool
}

// PositionClassifier matches position titles.
type PositionClassifier struct {
	Titles *lookup.Titles
}

// NewPositionClassifier builds a classifier over the known titles.
func NewPositionClassifier(titles *lookup.Titles) *PositionClassifier {
	return &PositionClassifier{Titles: titles}
}

// Split cuts the longest known title off the front of text. When no
// title matches directly, a leading grade token is stripped and the
// match retried.
func (c *PositionClassifier) Split(text string) Split {
	text = normalize.Compact(text)
	if title, ok := c.Titles.LongestPrefix(text); ok {
		return Split{Title: title, Remainder: trimRemainder(text[len(title):]), OK: true}
	}
	grade, rest := metadata.SplitGrade(text)
	if grade == "" {
		return Split{Remainder: text}
	}
	if title, ok := c.Titles.LongestPrefix(rest); ok {
		return Split{Title: title, Grade: grade, Remainder: trimRemainder(rest[len(title):]), OK: true}
	}
	return Split{Remainder: text}
}

// Standalone reports whether f is a position header carrying no name,
// and the title it sets.
func (c *PositionClassifier) Standalone(f fragment.Fragment) (bool, string) {
	if f.HasFields {
		pos := normalize.Compact(f.Position)
		name := normalize.Compact(f.Name)
		if pos != "" && pos != UnknownPosition && name == "" && c.Titles.Contains(pos) {
			return true, pos
		}
		if name != "" && c.Titles.Contains(name) {
			return true, name
		}
	}

	text := normalize.Compact(f.Text)
	if text == "" {
		return false, ""
	}
	if c.Titles.Contains(text) {
		return true, text
	}
	if s := c.Split(text); s.OK {
		if s.Remainder == "" {
			return true, s.Title
		}
		return false, ""
	}
	if f.Role == fragment.RolePosition {
		return true, text
	}
	return false, ""
}

func trimRemainder(s string) string {
	return strings.Trim(s, remainderCutset)
}
