package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cognicore/meibo/pkg/meibo/fragment"
	"github.com/cognicore/meibo/pkg/meibo/lookup"
	"github.com/cognicore/meibo/pkg/meibo/vocab"
)

func TestIsOffice(t *testing.T) {
	c := NewOfficeClassifier(lookup.NewHeaders([]string{"市長室", "經理"}), vocab.Default())

	tests := map[string]bool{
		"所得税課":              true,
		"◎庶務課":              true,
		"經理":                true, // known header without a suffix
		"課長":                false,
		"技師長":               false,
		"田中太郎":              false,
		"東京市役所麹町區役所出張所詰所会計課": false, // too long for the suffix rule
		"":                  false,
		"麹町区":               true,
	}
	for text, want := range tests {
		assert.Equal(t, want, c.IsOffice(text), "text %q", text)
	}

	assert.True(t, c.IsHeader("◎市長室"))
	assert.False(t, c.IsHeader("庶務課"))
}

func newPositions() *PositionClassifier {
	return NewPositionClassifier(lookup.NewTitles([]string{"Clerk", "Senior Clerk", "課長", "技師", "技師長", "書記"}))
}

func TestSplitLongestTitleFirst(t *testing.T) {
	c := newPositions()

	s := c.Split("Senior Clerk Tanaka")
	assert.True(t, s.OK)
	assert.Equal(t, "SeniorClerk", s.Title)
	assert.Equal(t, "Tanaka", s.Remainder)

	s = c.Split("技師長田中太郎")
	assert.Equal(t, "技師長", s.Title)
	assert.Equal(t, "田中太郎", s.Remainder)
}

func TestSplitGradeRetry(t *testing.T) {
	s := newPositions().Split("七上技師 田中太郎")
	assert.True(t, s.OK)
	assert.Equal(t, "技師", s.Title)
	assert.Equal(t, "七上", s.Grade)
	assert.Equal(t, "田中太郎", s.Remainder)
}

func TestSplitNoTitle(t *testing.T) {
	s := newPositions().Split("田中太郎")
	assert.False(t, s.OK)
	assert.Empty(t, s.Title)
	assert.Equal(t, "田中太郎", s.Remainder)

	s = newPositions().Split("七上田中")
	assert.False(t, s.OK)
	assert.Equal(t, "七上田中", s.Remainder)
}

func TestStandalone(t *testing.T) {
	c := newPositions()
	tests := []struct {
		name  string
		frag  fragment.Fragment
		ok    bool
		title string
	}{
		{"exact title", fragment.Fragment{Text: "課長"}, true, "課長"},
		{"spaced title", fragment.Fragment{Text: "課 長"}, true, "課長"},
		{"graded title", fragment.Fragment{Text: "七上技師"}, true, "技師"},
		{"title with name", fragment.Fragment{Text: "課長田中太郎"}, false, ""},
		{"plain name", fragment.Fragment{Text: "田中太郎", Role: fragment.RoleName}, false, ""},
		{"labelled unknown title", fragment.Fragment{Text: "主任", Role: fragment.RolePosition}, true, "主任"},
		{"labelled title with name", fragment.Fragment{Text: "書記鈴木", Role: fragment.RolePosition}, false, ""},
		{"v2 position without name", fragment.Fragment{Text: "技師", HasFields: true, Position: "技師"}, true, "技師"},
		{"v2 name is a title", fragment.Fragment{Text: "書記", HasFields: true, Position: "Unknown", Name: "書記"}, true, "書記"},
		{"v2 position with name", fragment.Fragment{Text: "技師田中", HasFields: true, Position: "技師", Name: "田中"}, false, ""},
		{"empty", fragment.Fragment{}, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, title := c.Standalone(tt.frag)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.title, title)
		})
	}
}
