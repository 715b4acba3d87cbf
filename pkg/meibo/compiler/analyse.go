package compiler

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/meibo/pkg/meibo/classify"
	"github.com/cognicore/meibo/pkg/meibo/fragment"
	"github.com/cognicore/meibo/pkg/meibo/metadata"
	"github.com/cognicore/meibo/pkg/meibo/noise"
	"github.com/cognicore/meibo/pkg/meibo/normalize"
)

type kind int

const (
	kindSkip kind = iota
	kindNoise
	kindOffice
	kindPosition
	kindDrafted
	kindNames
)

// entry is one person a fragment names.
type entry struct {
	name      string
	salary    string
	rank      string
	grade     string
	plausible bool
}

// analysis is what a fragment means independent of context.
type analysis struct {
	kind    kind
	signal  noise.Signal
	text    string // normalized fragment text
	title   string // position the fragment sets or carries
	grade   string // grade printed with a position header
	entries []entry
	// drafted marks the records of this fragment as conscripted.
	drafted bool
}

// nameSeparators split runs of names printed on one line.
const nameSeparators = ",、，､;；"

// minTokenLen drops one-rune OCR debris left by splitting.
const minTokenLen = 2

const draftedPunct = "()（）「」[]［］・、,，. 　"

func buildDraftedRE(keywords []string) *regexp.Regexp {
	kws := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = normalize.Compact(k); k != "" {
			kws = append(kws, regexp.QuoteMeta(k))
		}
	}
	if len(kws) == 0 {
		return nil
	}
	sort.SliceStable(kws, func(i, j int) bool { return len(kws[i]) > len(kws[j]) })
	return regexp.MustCompile(`[（(「]?(?:` + strings.Join(kws, "|") + `)中?[）)」]?`)
}

// analyse classifies f in the fixed priority order: noise, office,
// standalone position, drafted marker, then name extraction. It reads no
// state.
func (c *Compiler) analyse(f fragment.Fragment) analysis {
	text := normalize.Text(f.Text)
	compact := normalize.Compact(f.Text)
	a := analysis{text: text}
	if compact == "" {
		return a
	}

	hasKeyword := c.drafted != nil && c.drafted.MatchString(compact)
	body := compact
	if hasKeyword {
		body = c.drafted.ReplaceAllString(compact, "")
	}

	explicit, grade, nameText := c.splitPosition(f, body)
	cleaned := metadata.Extract(nameText).Cleaned
	if r := c.noise.Check(noise.Candidate{Raw: compact, Name: cleaned, PositionMatched: explicit != ""}); r.Noise() {
		a.kind = kindNoise
		a.signal = r.Signal
		return a
	}

	if c.isOffice(f, explicit) {
		a.kind = kindOffice
		return a
	}

	if f.Role != fragment.RoleDrafted {
		if ok, title := c.positions.Standalone(f); ok {
			a.kind = kindPosition
			a.title = title
			a.grade = c.headerGrade(f, compact, title)
			return a
		}
	}

	if f.Role == fragment.RoleDrafted || (hasKeyword && utf8.RuneCountInString(strings.Trim(body, draftedPunct)) < minTokenLen) {
		a.kind = kindDrafted
		return a
	}

	a.title = explicit
	a.grade = grade
	a.drafted = hasKeyword
	a.entries = c.extract(f, nameText, grade)

	labelled := f.HasFields || f.Role == fragment.RoleName || f.Role == fragment.RolePositionAndName
	if !labelled && explicit == "" && !anyPlausible(a.entries) {
		a.entries = nil
	}
	switch {
	case len(a.entries) > 0:
		a.kind = kindNames
	case explicit != "":
		a.kind = kindPosition
	}
	return a
}

// splitPosition returns the explicit title a fragment carries, the grade
// printed before it and the text left for names.
func (c *Compiler) splitPosition(f fragment.Fragment, body string) (title, grade, rest string) {
	if f.HasFields {
		pos := normalize.Compact(f.Position)
		name := normalize.Compact(f.Name)
		if pos == classify.UnknownPosition {
			pos = ""
		}
		if name != "" {
			return pos, "", name
		}
		if pos != "" {
			if s := c.positions.Split(body); s.OK {
				return pos, s.Grade, s.Remainder
			}
			return pos, "", body
		}
	}
	switch f.Role {
	case fragment.RolePositionAndName, fragment.RolePosition, fragment.RoleUnknown:
		if s := c.positions.Split(body); s.OK {
			return s.Title, s.Grade, s.Remainder
		}
	}
	return "", "", body
}

// headerGrade returns the grade printed before a standalone title, as in
// 七上技師.
func (c *Compiler) headerGrade(f fragment.Fragment, compact, title string) string {
	if s := c.positions.Split(compact); s.OK && s.Title == title && s.Remainder == "" && s.Grade != "" {
		return s.Grade
	}
	if f.HasFields {
		return normalize.Compact(f.Grade)
	}
	return ""
}

// isOffice applies the suffix rule to every fragment that carries no
// explicit title. Drafted markers and titled fragments must match a
// known header.
func (c *Compiler) isOffice(f fragment.Fragment, explicit string) bool {
	switch {
	case f.Role == fragment.RoleOffice:
		return true
	case f.Role == fragment.RoleDrafted || explicit != "":
		return c.offices.IsHeader(f.Text)
	default:
		return c.offices.IsOffice(f.Text)
	}
}

// extract splits nameText into people and strips their metadata.
func (c *Compiler) extract(f fragment.Fragment, nameText, prefixGrade string) []entry {
	var out []entry
	for _, tok := range strings.FieldsFunc(nameText, func(r rune) bool {
		return strings.ContainsRune(nameSeparators, r)
	}) {
		tok = strings.TrimSpace(tok)
		if utf8.RuneCountInString(tok) < minTokenLen {
			continue
		}
		meta := metadata.Extract(tok)
		if meta.Cleaned == "" {
			continue
		}

		names := []string{meta.Cleaned}
		if c.opts.SplitNames {
			if split := c.oracle.Split(meta.Cleaned); len(split) >= 2 {
				names = split
			}
		}
		for _, name := range names {
			e := entry{
				name:   name,
				salary: first(f.Salary, meta.Salary),
				rank:   first(f.Rank, meta.Rank),
				grade:  first(prefixGrade, f.Grade, meta.Grade),
			}
			e.plausible = c.oracle.IsPlausible(name)
			out = append(out, e)
		}
	}
	return out
}

func anyPlausible(entries []entry) bool {
	for _, e := range entries {
		if e.plausible {
			return true
		}
	}
	return false
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
