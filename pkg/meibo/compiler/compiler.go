// Package compiler turns an ordered stream of classified OCR fragments into
// personnel records. It carries the current office and position across
// fragments, applies the inheritance rules for single-person titles and
// shared rows, strips inline metadata and drops noise.
package compiler

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/cognicore/meibo/pkg/meibo/classify"
	"github.com/cognicore/meibo/pkg/meibo/fragment"
	"github.com/cognicore/meibo/pkg/meibo/gender"
	"github.com/cognicore/meibo/pkg/meibo/lookup"
	"github.com/cognicore/meibo/pkg/meibo/names"
	"github.com/cognicore/meibo/pkg/meibo/noise"
	"github.com/cognicore/meibo/pkg/meibo/normalize"
	"github.com/cognicore/meibo/pkg/meibo/record"
	"github.com/cognicore/meibo/pkg/meibo/vocab"
)

// DefaultRowTolerance is the y distance, in pixels, within which two
// names share a row.
const DefaultRowTolerance = 10

// Options configures a Compiler. Nil collaborators get defaults: empty
// lookups, the heuristic oracle, both gender rule sets and the default
// noise thresholds.
type Options struct {
	Crosswalk  *lookup.Crosswalk
	Oracle     *names.Oracle
	Legacy     gender.Classifier
	Modern     gender.Classifier
	Noise      *noise.Filter
	Vocabulary *vocab.Vocabulary

	// LayoutAware keeps one State per page and stacks names that share
	// a row.
	LayoutAware  bool
	RowTolerance int
	// SplitNames runs the oracle's surname/given-name grouping over
	// each name token.
	SplitNames bool
	Year       string
	Logger     *zap.Logger
}

// Stats counts what a compile did with its fragments.
type Stats struct {
	Fragments      int            `json:"fragments"`
	Noise          int            `json:"noise"`
	NoiseBySignal  map[string]int `json:"noise_by_signal,omitempty"`
	Offices        int            `json:"offices"`
	Positions      int            `json:"positions"`
	Drafted        int            `json:"drafted"`
	DraftedOrphans int            `json:"drafted_orphans"`
	Skipped        int            `json:"skipped"`
	Records        int            `json:"records"`
}

// Result is the output of Compile.
type Result struct {
	Records []record.Record
	Stats   Stats
}

// Compiler is immutable after New and safe for concurrent Compile calls.
type Compiler struct {
	opts      Options
	offices   *classify.OfficeClassifier
	positions *classify.PositionClassifier
	oracle    *names.Oracle
	legacy    gender.Classifier
	modern    gender.Classifier
	noise     *noise.Filter
	single    map[string]struct{}
	mass      map[string]struct{}
	drafted   *regexp.Regexp
	logger    *zap.Logger
}

// New builds a compiler.
func New(opts Options) *Compiler {
	v := vocab.Default()
	if opts.Vocabulary != nil {
		v = *opts.Vocabulary
	}
	cw := opts.Crosswalk
	if cw == nil {
		cw = lookup.Empty()
	}
	if opts.RowTolerance <= 0 {
		opts.RowTolerance = DefaultRowTolerance
	}
	c := &Compiler{
		opts:      opts,
		offices:   classify.NewOfficeClassifier(cw.Headers, v),
		positions: classify.NewPositionClassifier(cw.Titles),
		oracle:    opts.Oracle,
		legacy:    opts.Legacy,
		modern:    opts.Modern,
		noise:     opts.Noise,
		single:    toSet(v.SinglePersonTitles),
		mass:      toSet(v.MassTitles),
		drafted:   buildDraftedRE(v.DraftedKeywords),
		logger:    opts.Logger,
	}
	if c.oracle == nil {
		c.oracle = names.NewOracle(names.Heuristic{}, v)
	}
	if c.legacy == nil {
		c.legacy = gender.Legacy()
	}
	if c.modern == nil {
		c.modern = gender.Modern()
	}
	if c.noise == nil {
		c.noise = noise.NewFilter(noise.DefaultThresholds(), v)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Year is the year stamped on every record.
func (c *Compiler) Year() string { return c.opts.Year }

// Compile folds frags, in the order given, into records.
func (c *Compiler) Compile(frags []fragment.Fragment) Result {
	stats := Stats{Fragments: len(frags), NoiseBySignal: make(map[string]int)}
	analyses := make([]analysis, len(frags))
	for i, f := range frags {
		analyses[i] = c.analyse(f)
	}
	var rows rowPlan
	if c.opts.LayoutAware {
		rows = planRows(frags, analyses, c.opts.RowTolerance)
	}

	var recs Records
	st := NewState()
	page := ""
	for i, f := range frags {
		if c.opts.LayoutAware {
			if key := f.PageKey(); i == 0 || key != page {
				page = key
				st = NewState()
			}
		}
		a := analyses[i]
		switch a.kind {
		case kindNoise:
			stats.Noise++
			stats.NoiseBySignal[string(a.signal)]++
			c.logger.Debug("dropped noise",
				zap.String("signal", string(a.signal)),
				zap.String("text", a.text),
				zap.String("page", f.PageKey()))
		case kindOffice:
			st.EnterOffice(a.text)
			stats.Offices++
		case kindPosition:
			st.EnterPosition(a.title, a.grade)
			stats.Positions++
		case kindDrafted:
			if recs.MarkLastDrafted() {
				stats.Drafted++
			} else {
				stats.DraftedOrphans++
			}
		case kindNames:
			c.emit(f, a, st, &recs, rows.row(i))
			if a.drafted && recs.MarkLastDrafted() {
				stats.Drafted++
			}
		default:
			stats.Skipped++
		}
	}

	stats.Records = recs.Len()
	return Result{Records: recs.All(), Stats: stats}
}

func (c *Compiler) emit(f fragment.Fragment, a analysis, st *State, recs *Records, row *row) {
	for _, e := range a.entries {
		stacking := row != nil && row.size >= 2 && a.title == "" && !c.isMass(st.Position)
		pos := st.assign(a.title, c.single)
		if a.title != "" {
			st.Grade = a.grade
		}
		grade := e.grade
		if grade == "" && pos == st.Position && pos != record.UnknownPosition {
			grade = st.Grade
		}
		if stacking {
			if row.seen == 0 {
				st.stack()
			} else {
				pos = record.StackedPosition
			}
		}
		if row != nil {
			row.seen++
		}

		rec := record.Record{
			Year:     c.opts.Year,
			Office:   st.Office,
			Position: pos,
			Grade:    grade,
			Name:     e.name,
			RawText:  a.text,
			Salary:   e.salary,
			Rank:     e.rank,
			IsName:   e.plausible,
			Page:     f.PageKey(),
			Image:    f.Image,
			X:        f.X,
			Y:        f.Y,
		}
		if e.plausible {
			rec.GenderLegacy = c.legacy.Classify(e.name)
			rec.GenderModern = c.modern.Classify(e.name)
		}
		recs.Append(rec)
	}
}

func (c *Compiler) isMass(position string) bool {
	_, ok := c.mass[position]
	return ok
}

func toSet(vals []string) map[string]struct{} {
	set := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		if v = normalize.Compact(v); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
