package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/meibo/pkg/meibo/vocab"
)

type fakeAnalyzer map[string][]Token

func (f fakeAnalyzer) Tokenize(text string) []Token { return f[text] }

func surname(s string) Token { return Token{Surface: s, POS: []string{"名詞", "固有名詞", "人名", "姓"}} }
func given(s string) Token   { return Token{Surface: s, POS: []string{"名詞", "固有名詞", "人名", "名"}} }
func place(s string) Token   { return Token{Surface: s, POS: []string{"名詞", "固有名詞", "地域", "一般"}} }
func common(s string) Token  { return Token{Surface: s, POS: []string{"名詞", "一般"}} }

func TestHardConstraints(t *testing.T) {
	o := NewOracle(Heuristic{}, vocab.Default())
	assert.False(t, o.IsPlausible("田"), "too short")
	assert.False(t, o.IsPlausible("田中太郎田中太郎田"), "too long")
	assert.False(t, o.IsPlausible("たなか"), "hiragana")
	assert.False(t, o.IsPlausible("Tanaka"), "latin")
	assert.True(t, o.IsPlausible("サトウー"), "katakana with long vowel mark")
}

func TestHeuristicRules(t *testing.T) {
	o := NewOracle(nil, vocab.Default())
	tests := map[string]bool{
		"田中太郎": true,
		"昭和十年": false,
		"施行規則": false,
		"庶務課":  false,
		"阿部":   false,
		"一二三":  false,
		"田中ヲ助": false,
		"ハナ":   true,
	}
	for text, want := range tests {
		assert.Equal(t, want, o.IsPlausible(text), "text %q", text)
	}
}

func TestMorphologicalRules(t *testing.T) {
	fa := fakeAnalyzer{
		"田中太郎": {surname("田中"), given("太郎")},
		"太郎":   {given("太郎")},
		"花太郎":  {given("花太郎")},
		"東京都庁": {place("東京"), common("都庁")},
		"田中課長代理": {surname("田中"), common("課長代理")},
		"阿部":   {surname("阿部")},
		"中村一二": {surname("中"), given("村"), common("一二")},
	}
	o := NewOracle(fa, vocab.Default())

	assert.True(t, o.IsPlausible("田中太郎"))
	assert.True(t, o.IsPlausible("阿部"), "analyzer overrides the suffix heuristic")
	assert.True(t, o.IsPlausible("花太郎"), "surnameless names need three runes")
	assert.False(t, o.IsPlausible("太郎"), "surnameless two-rune name")
	assert.False(t, o.IsPlausible("東京都庁"), "no person token")
	assert.False(t, o.IsPlausible("田中課長代理"), "person span below half")
	assert.False(t, o.IsPlausible("中村一二"), "no multi-rune person token")
}

func TestSplit(t *testing.T) {
	fa := fakeAnalyzer{
		"田中太郎鈴木一郎": {surname("田中"), given("太郎"), surname("鈴木"), given("一郎")},
		"田中太郎課長":   {surname("田中"), given("太郎"), common("課長")},
		"一郎田中":     {given("一郎"), surname("田中")},
		"長谷川村":     {surname("長谷川"), common("村")},
		"林":        {surname("林")},
	}
	o := NewOracle(fa, vocab.Default())

	assert.Equal(t, []string{"田中太郎", "鈴木一郎"}, o.Split("田中太郎鈴木一郎"))
	assert.Equal(t, []string{"田中太郎"}, o.Split("田中太郎課長"))
	assert.Equal(t, []string{"一郎"}, o.Split("一郎田中"), "orphan given name kept, short surname dropped")
	assert.Equal(t, []string{"長谷川"}, o.Split("長谷川村"))
	assert.Empty(t, o.Split("林"))
	assert.Nil(t, NewOracle(Heuristic{}, vocab.Default()).Split("田中太郎"))
}

func TestSelectHeuristic(t *testing.T) {
	assert.IsType(t, Heuristic{}, Select(KindHeuristic, nil))
	assert.IsType(t, Heuristic{}, Select("sudachi", nil))
}

func TestKagome(t *testing.T) {
	if testing.Short() {
		t.Skip("loads the IPA dictionary")
	}
	k, err := NewKagome()
	require.NoError(t, err)

	tokens := k.Tokenize("田中太郎")
	require.NotEmpty(t, tokens)
	assert.Equal(t, "田中", tokens[0].Surface)
	assert.Equal(t, []string{"名詞", "固有名詞", "人名", "姓"}, tokens[0].POS)

	assert.True(t, NewOracle(k, vocab.Default()).IsPlausible("田中太郎"))
	assert.Nil(t, k.Tokenize(""))
}
