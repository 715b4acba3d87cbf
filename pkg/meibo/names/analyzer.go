package names

import (
	"fmt"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"go.uber.org/zap"
)

// Heuristic is the analyzer used when no dictionary is available. It
// yields no tokens, which sends the oracle to its vocabulary rules.
type Heuristic struct{}

// Tokenize implements Analyzer.
func (Heuristic) Tokenize(string) []Token { return nil }

// Kagome is a morphological analyzer backed by the IPA dictionary, whose
// person-name tags are 名詞,固有名詞,人名,姓|名.
type Kagome struct {
	t *tokenizer.Tokenizer
}

// NewKagome loads the IPA dictionary.
func NewKagome() (*Kagome, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("init kagome: %w", err)
	}
	return &Kagome{t: t}, nil
}

// Tokenize implements Analyzer.
func (k *Kagome) Tokenize(text string) []Token {
	if text == "" {
		return nil
	}
	raw := k.t.Tokenize(text)
	out := make([]Token, 0, len(raw))
	for _, tok := range raw {
		out = append(out, Token{Surface: tok.Surface, POS: tok.POS()})
	}
	return out
}

// Analyzer kinds accepted by Select.
const (
	KindKagome    = "kagome"
	KindHeuristic = "heuristic"
)

// Select returns the analyzer named by kind. Kagome falls back to the
// heuristic with a warning when the dictionary cannot be loaded; unknown
// kinds fall back too.
func Select(kind string, logger *zap.Logger) Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch kind {
	case KindHeuristic:
		return Heuristic{}
	case KindKagome, "":
		k, err := NewKagome()
		if err != nil {
			logger.Warn("morphological analyzer unavailable, using heuristic name checks", zap.Error(err))
			return Heuristic{}
		}
		return k
	default:
		logger.Warn("unknown analyzer, using heuristic name checks", zap.String("analyzer", kind))
		return Heuristic{}
	}
}
