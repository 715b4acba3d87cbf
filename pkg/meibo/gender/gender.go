// Package gender classifies roster names by their trailing characters.
// Unmatched names default to male, matching the composition of the
// historical rosters; the default is kept for parity with earlier output.
package gender

import (
	"unicode/utf8"

	"github.com/cognicore/meibo/pkg/meibo/normalize"
)

// Gender is a classification result. The empty value means no name.
type Gender string

const (
	Unknown Gender = ""
	Male    Gender = "male"
	Female  Gender = "female"
)

// Classifier assigns a gender to a name.
type Classifier interface {
	Classify(name string) Gender
}

// Rules is a suffix classifier. Blocklisted surnames end in feminine-coded
// characters but are male when they stand alone.
type Rules struct {
	Endings   map[rune]struct{}
	Blocklist map[string]struct{}
	// Katakana holds feminine given-name readings, matched whole for
	// two-rune names and as the final two runes of longer ones.
	Katakana map[string]struct{}
}

var (
	legacyEndings   = []rune("子江枝代美惠恵乃")
	legacyBlocklist = []string{"金子", "増子", "尼子", "入江", "堀江", "大江", "細江"}

	modernEndings   = []rune("香津世栄榮菊梅花女奈絵繪里")
	modernBlocklist = []string{
		"砂子", "益子", "我孫子", "田代", "神代", "網代", "八代",
		"矢代", "屋代", "三枝", "渥美", "宇佐美", "吉江",
	}
	modernKatakana = []string{
		"ハナ", "キヨ", "トミ", "ヨシ", "ハル", "フミ", "マツ", "タケ", "ウメ",
		"キク", "ツル", "カメ", "シヅ", "チヨ", "ミツ", "ヤス", "イネ", "スミ",
	}
)

// Legacy returns the rule set of the first roster releases.
func Legacy() *Rules {
	return newRules(legacyEndings, legacyBlocklist, nil)
}

// Modern extends Legacy with more endings, more blocklisted surnames and
// katakana given names.
func Modern() *Rules {
	endings := append(append([]rune{}, legacyEndings...), modernEndings...)
	blocklist := append(append([]string{}, legacyBlocklist...), modernBlocklist...)
	return newRules(endings, blocklist, modernKatakana)
}

func newRules(endings []rune, blocklist, katakana []string) *Rules {
	r := &Rules{
		Endings:   make(map[rune]struct{}, len(endings)),
		Blocklist: make(map[string]struct{}, len(blocklist)),
		Katakana:  make(map[string]struct{}, len(katakana)),
	}
	for _, e := range endings {
		r.Endings[e] = struct{}{}
	}
	for _, b := range blocklist {
		r.Blocklist[b] = struct{}{}
	}
	for _, k := range katakana {
		r.Katakana[k] = struct{}{}
	}
	return r
}

// Classify implements Classifier.
func (r *Rules) Classify(name string) Gender {
	name = normalize.Compact(name)
	if name == "" {
		return Unknown
	}
	if _, ok := r.Blocklist[name]; ok {
		return Male
	}
	last, _ := utf8.DecodeLastRuneInString(name)
	if _, ok := r.Endings[last]; ok {
		return Female
	}
	if len(r.Katakana) > 0 {
		runes := []rune(name)
		if len(runes) >= 2 {
			if _, ok := r.Katakana[string(runes[len(runes)-2:])]; ok {
				return Female
			}
		}
	}
	return Male
}
