// Package vocab holds the closed character and word sets the classifiers
// share. Every set can be replaced from a vocabulary file (see
// pkg/meibo/config); the defaults reflect the Tokyo-shi and Tokyo-fu
// yearbooks of 1937-1945.
package vocab

// Vocabulary bundles the closed sets used across the compiler.
type Vocabulary struct {
	// OfficeSuffixes are the trailing characters of section, bureau,
	// ward and room headers.
	OfficeSuffixes []string
	// SinglePersonTitles name exactly one incumbent; only the first
	// following name inherits them.
	SinglePersonTitles []string
	// MassTitles keep their position when several names share a row.
	MassTitles []string
	// StampKeywords mark library stamps bled into the scan.
	StampKeywords []string
	// DraftedKeywords mark a conscripted incumbent.
	DraftedKeywords []string
}

// Default returns the built-in vocabulary.
func Default() Vocabulary {
	return Vocabulary{
		OfficeSuffixes:     clone(defaultOfficeSuffixes),
		SinglePersonTitles: clone(defaultSinglePersonTitles),
		MassTitles:         clone(defaultMassTitles),
		StampKeywords:      clone(defaultStampKeywords),
		DraftedKeywords:    clone(defaultDraftedKeywords),
	}
}

// Merge returns v with every non-empty set of override replacing its
// counterpart.
func (v Vocabulary) Merge(override Vocabulary) Vocabulary {
	if len(override.OfficeSuffixes) > 0 {
		v.OfficeSuffixes = clone(override.OfficeSuffixes)
	}
	if len(override.SinglePersonTitles) > 0 {
		v.SinglePersonTitles = clone(override.SinglePersonTitles)
	}
	if len(override.MassTitles) > 0 {
		v.MassTitles = clone(override.MassTitles)
	}
	if len(override.StampKeywords) > 0 {
		v.StampKeywords = clone(override.StampKeywords)
	}
	if len(override.DraftedKeywords) > 0 {
		v.DraftedKeywords = clone(override.DraftedKeywords)
	}
	return v
}

// CircleGlyphs prefix office headers in some volumes (◎庶務課).
const CircleGlyphs = "◎〇O○o0〓"

// ChiefSuffix ends head-of-unit titles (課長, 係長) that would otherwise
// look like office headers.
const ChiefSuffix = '長'

// Numerals are the kanji numerals used in salary, rank and counters.
const Numerals = "一二三四五六七八九十百千万〇零"

// Particles are the classical grammatical particles and verb endings of
// regulatory text, hiragana and katakana.
const Particles = "はをにへとでもハヲニヘトモテスルシタリナラレ"

// NameParticles is the subset that never occurs inside a personal name.
// Katakana given names (ハナ, トミ) rule out the wider set.
const NameParticles = "はをにへとでもがヲ"

var defaultOfficeSuffixes = []string{
	"課", "係", "所", "房", "合", "院", "室", "場", "局", "屋",
	"寮", "館", "康", "ム", "班", "部", "衛", "宿", "校", "区", "署",
}

var defaultSinglePersonTitles = []string{
	"局長", "部長", "課長", "係長", "所長", "場長", "館長", "院長",
	"校長", "室長", "署長", "主事", "技師", "技師長", "課長代理",
}

var defaultMassTitles = []string{
	"書記", "技手", "雇", "雇員", "傭人", "嘱託", "囑託", "事務員",
	"技術員", "看護婦", "保健婦", "教員", "訓導", "助手", "工手",
}

var defaultStampKeywords = []string{
	"圖書館", "図書館", "藏書", "蔵書", "寄贈", "受入", "文庫",
}

var defaultDraftedKeywords = []string{
	"應召", "召中", "應徴", "徴中", "入營", "營中",
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
