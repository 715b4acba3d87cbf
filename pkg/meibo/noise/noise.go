// Package noise drops OCR lines that are not personnel data: column bleed,
// garbled reads, page references, regulatory boilerplate, library stamps
// and addresses.
package noise

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/meibo/pkg/meibo/vocab"
)

// Signal names the heuristic that classified a line as noise.
type Signal string

const (
	SignalNone      Signal = ""
	SignalLatin     Signal = "latin_density"
	SignalGarbled   Signal = "garbled"
	SignalBadSplit  Signal = "bad_split"
	SignalEllipsis  Signal = "ellipsis"
	SignalParticles Signal = "particle_density"
	SignalStamp     Signal = "library_stamp"
	SignalDigits    Signal = "digit_density"
	SignalAddress   Signal = "address"
)

// Thresholds holds the cut-offs of the density and length signals.
type Thresholds struct {
	LatinDensity    float64 // share of ASCII letters, digits and symbols
	LongText        int     // runes above which the garbled check applies
	UniqueRatio     float64 // distinct runes over runes
	ShortNameRaw    int     // raw length above which a 1-rune name is a bad split
	ParticleDensity float64
	ParticleMinLen  int
	DigitDensity    float64
	DigitMinLen     int
}

// DefaultThresholds returns the cut-offs tuned on the 1937-1945 volumes.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LatinDensity:    0.40,
		LongText:        25,
		UniqueRatio:     0.7,
		ShortNameRaw:    15,
		ParticleDensity: 0.15,
		ParticleMinLen:  8,
		DigitDensity:    0.5,
		DigitMinLen:     2,
	}
}

// Candidate is the view of a fragment the filter inspects.
type Candidate struct {
	Raw             string // compacted fragment text
	Name            string // cleaned name portion, if any
	PositionMatched bool
}

// Reason explains a noise verdict.
type Reason struct {
	Signal Signal
	Value  float64 // measured density or length behind the verdict
}

// Noise reports whether any signal fired.
func (r Reason) Noise() bool {
	return r.Signal != SignalNone
}

var (
	ellipsisRE = regexp.MustCompile(`[…‥・·.．]{2,}`)
	addressRE  = regexp.MustCompile(`[0-9一二三四五六七八九十百千〇]+(番地|番|號|号|丁目|町目)|電話`)
)

// Filter applies the noise heuristics.
type Filter struct {
	Thresholds    Thresholds
	StampKeywords []string
}

// NewFilter builds a filter with v's stamp keywords.
func NewFilter(th Thresholds, v vocab.Vocabulary) *Filter {
	return &Filter{Thresholds: th, StampKeywords: v.StampKeywords}
}

// IsNoise reports whether c should be dropped.
func (f *Filter) IsNoise(c Candidate) bool {
	return f.Check(c).Noise()
}

// Check evaluates the signals in a fixed order and returns the first
// that fires.
func (f *Filter) Check(c Candidate) Reason {
	th := f.Thresholds
	raw := []rune(c.Raw)
	n := len(raw)
	if n == 0 {
		return Reason{}
	}

	latin, digits, particles := 0, 0, 0
	distinct := make(map[rune]struct{}, n)
	for _, r := range raw {
		distinct[r] = struct{}{}
		if r > ' ' && r < utf8.RuneSelf {
			latin++
		}
		if (r >= '0' && r <= '9') || strings.ContainsRune(vocab.Numerals, r) {
			digits++
		}
		if strings.ContainsRune(vocab.Particles, r) {
			particles++
		}
	}

	if d := float64(latin) / float64(n); d > th.LatinDensity {
		return Reason{Signal: SignalLatin, Value: d}
	}
	if n > th.LongText && !c.PositionMatched {
		if u := float64(len(distinct)) / float64(n); u > th.UniqueRatio {
			return Reason{Signal: SignalGarbled, Value: u}
		}
	}
	if utf8.RuneCountInString(c.Name) == 1 && n > th.ShortNameRaw {
		return Reason{Signal: SignalBadSplit, Value: float64(n)}
	}
	if ellipsisRE.MatchString(c.Raw) {
		return Reason{Signal: SignalEllipsis}
	}
	if n > th.ParticleMinLen {
		if d := float64(particles) / float64(n); d > th.ParticleDensity {
			return Reason{Signal: SignalParticles, Value: d}
		}
	}
	for _, kw := range f.StampKeywords {
		if kw != "" && strings.Contains(c.Raw, kw) {
			return Reason{Signal: SignalStamp}
		}
	}
	if n > th.DigitMinLen {
		if d := float64(digits) / float64(n); d > th.DigitDensity {
			return Reason{Signal: SignalDigits, Value: d}
		}
	}
	if !c.PositionMatched && addressRE.MatchString(c.Raw) {
		return Reason{Signal: SignalAddress}
	}
	return Reason{}
}
