// Package names judges whether a string is a plausible personal name and
// splits runs of concatenated names. A morphological analyzer is used when
// one is available; otherwise a vocabulary heuristic decides.
package names

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/meibo/pkg/meibo/normalize"
	"github.com/cognicore/meibo/pkg/meibo/vocab"
)

// Token is one morpheme with its part-of-speech tags, most general first.
type Token struct {
	Surface string
	POS     []string
}

// Analyzer tokenizes text. An analyzer without morphology returns nil.
type Analyzer interface {
	Tokenize(text string) []Token
}

const (
	MinNameLen = 2
	MaxNameLen = 8
	// ScriptRatio is the share of Han or Katakana runes a name needs.
	ScriptRatio = 0.8
	// PersonSpan is the share of a name person-name tokens must cover.
	PersonSpan = 0.5
	// MinSurnamelessLen applies when the analyzer found no surname token.
	MinSurnamelessLen = 3
)

// nonNameTerms are era, calendar and regulatory words that turn up in
// headers and boilerplate.
var nonNameTerms = []string{
	"昭和", "大正", "明治", "年度", "規則", "規程", "施行",
	"條例", "条例", "告示", "訓令", "以上", "以下",
}

// Oracle answers plausibility and split questions.
type Oracle struct {
	analyzer Analyzer
	suffixes []string
}

// NewOracle builds an oracle over analyzer. A nil analyzer means the
// heuristic alone.
func NewOracle(analyzer Analyzer, v vocab.Vocabulary) *Oracle {
	if analyzer == nil {
		analyzer = Heuristic{}
	}
	return &Oracle{analyzer: analyzer, suffixes: v.OfficeSuffixes}
}

// IsPlausible reports whether text reads as a personal name.
func (o *Oracle) IsPlausible(text string) bool {
	text = normalize.Compact(text)
	n := utf8.RuneCountInString(text)
	if n < MinNameLen || n > MaxNameLen {
		return false
	}
	if scriptShare(text) < ScriptRatio {
		return false
	}
	tokens := o.analyzer.Tokenize(text)
	if len(tokens) == 0 {
		return o.heuristic(text, n)
	}
	return morphological(tokens, n)
}

// Split groups the person-name tokens of text into full names. A surname
// opens a name and a following given name closes it; an orphan given name
// of two or more runes stands alone; a surname with no given name is kept
// only when it is at least three runes long. It returns nil without
// morphology.
func (o *Oracle) Split(text string) []string {
	text = normalize.Compact(text)
	if text == "" {
		return nil
	}
	tokens := o.analyzer.Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	var (
		out      []string
		pending  strings.Builder
		hasGiven bool
	)
	flush := func() {
		if pending.Len() == 0 {
			return
		}
		if cand := pending.String(); hasGiven || utf8.RuneCountInString(cand) >= MinSurnamelessLen {
			out = append(out, cand)
		}
		pending.Reset()
		hasGiven = false
	}

	for _, tok := range tokens {
		if !isPerson(tok) {
			flush()
			continue
		}
		switch subtype(tok) {
		case "姓":
			flush()
			pending.WriteString(tok.Surface)
		case "名":
			if pending.Len() > 0 {
				pending.WriteString(tok.Surface)
				hasGiven = true
				flush()
			} else if utf8.RuneCountInString(tok.Surface) >= MinNameLen {
				out = append(out, tok.Surface)
			}
		default:
			pending.WriteString(tok.Surface)
		}
	}
	flush()
	return out
}

func morphological(tokens []Token, n int) bool {
	var span, persons int
	multi, surname := false, false
	for _, tok := range tokens {
		if !isPerson(tok) {
			continue
		}
		persons++
		l := utf8.RuneCountInString(tok.Surface)
		span += l
		if l > 1 {
			multi = true
		}
		if subtype(tok) == "姓" {
			surname = true
		}
	}
	if persons == 0 || !multi {
		return false
	}
	if float64(span)/float64(n) < PersonSpan {
		return false
	}
	if !surname && n < MinSurnamelessLen {
		return false
	}
	return true
}

func (o *Oracle) heuristic(text string, n int) bool {
	for _, term := range nonNameTerms {
		if strings.Contains(text, term) {
			return false
		}
	}
	for _, s := range o.suffixes {
		if s != "" && strings.HasSuffix(text, s) {
			return false
		}
	}
	if n > 3 && strings.ContainsAny(text, vocab.NameParticles) {
		return false
	}
	allNumerals := true
	for _, r := range text {
		if !strings.ContainsRune(vocab.Numerals, r) {
			allNumerals = false
			break
		}
	}
	return !allNumerals
}

func isPerson(tok Token) bool {
	return len(tok.POS) >= 3 && tok.POS[0] == "名詞" && tok.POS[1] == "固有名詞" && tok.POS[2] == "人名"
}

func subtype(tok Token) string {
	if len(tok.POS) < 4 {
		return ""
	}
	return tok.POS[3]
}

func scriptShare(text string) float64 {
	total, hit := 0, 0
	for _, r := range text {
		total++
		if unicode.Is(unicode.Han, r) || unicode.Is(unicode.Katakana, r) || r == 'ー' {
			hit++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hit) / float64(total)
}
