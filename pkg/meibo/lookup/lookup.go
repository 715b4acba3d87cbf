// Package lookup loads the position-title crosswalk: the known titles used
// for position matching and the office headers flagged in the same table.
package lookup

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/meibo/pkg/meibo/normalize"
	"github.com/cognicore/meibo/pkg/meibo/vocab"
)

// Titles is a deduplicated set of position titles matched
// longest-prefix-first. The zero value and nil are empty sets.
type Titles struct {
	set     map[string]struct{}
	ordered []string // longest first, ties lexical
}

// NewTitles builds a title set. Entries are compacted; blanks dropped.
func NewTitles(titles []string) *Titles {
	t := &Titles{set: make(map[string]struct{}, len(titles))}
	for _, raw := range titles {
		title := normalize.Compact(raw)
		if title == "" {
			continue
		}
		if _, dup := t.set[title]; dup {
			continue
		}
		t.set[title] = struct{}{}
		t.ordered = append(t.ordered, title)
	}
	sort.Slice(t.ordered, func(i, j int) bool {
		li := utf8.RuneCountInString(t.ordered[i])
		lj := utf8.RuneCountInString(t.ordered[j])
		if li != lj {
			return li > lj
		}
		return t.ordered[i] < t.ordered[j]
	})
	return t
}

// Contains reports whether the compacted text is exactly a known title.
func (t *Titles) Contains(text string) bool {
	if t == nil {
		return false
	}
	_, ok := t.set[normalize.Compact(text)]
	return ok
}

// LongestPrefix returns the longest known title the compacted text
// starts with.
func (t *Titles) LongestPrefix(text string) (string, bool) {
	if t == nil {
		return "", false
	}
	text = normalize.Compact(text)
	for _, title := range t.ordered {
		if strings.HasPrefix(text, title) {
			return title, true
		}
	}
	return "", false
}

// Len returns the number of titles.
func (t *Titles) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ordered)
}

// All returns the titles longest first.
func (t *Titles) All() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// Headers is the set of known office header strings.
type Headers struct {
	set map[string]struct{}
}

// NewHeaders builds a header set from raw strings.
func NewHeaders(headers []string) *Headers {
	h := &Headers{set: make(map[string]struct{}, len(headers))}
	for _, raw := range headers {
		if key := headerKey(raw); key != "" {
			h.set[key] = struct{}{}
		}
	}
	return h
}

// Contains reports exact membership after stripping leading circle glyphs.
func (h *Headers) Contains(text string) bool {
	if h == nil {
		return false
	}
	key := headerKey(text)
	if key == "" {
		return false
	}
	_, ok := h.set[key]
	return ok
}

// Len returns the number of headers.
func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.set)
}

// StripCircles removes the leading circle glyphs some volumes print before
// office headers.
func StripCircles(text string) string {
	return strings.TrimLeft(text, vocab.CircleGlyphs)
}

func headerKey(text string) string {
	return StripCircles(normalize.Compact(text))
}

// Crosswalk bundles the two lookups.
type Crosswalk struct {
	Titles  *Titles
	Headers *Headers
}

// Empty returns a crosswalk with no titles and no headers.
func Empty() *Crosswalk {
	return &Crosswalk{Titles: NewTitles(nil), Headers: NewHeaders(nil)}
}
