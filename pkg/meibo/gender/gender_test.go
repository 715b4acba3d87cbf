package gender

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLegacy(t *testing.T) {
	c := Legacy()
	tests := map[string]Gender{
		"田中花子": Female,
		"鈴木美代": Female,
		"金子":   Male,
		"金子ハナ": Male, // no katakana readings in the legacy set
		"田中太郎": Male,
		"佐藤里":  Male,
		"":     Unknown,
		"  ":   Unknown,
	}
	for name, want := range tests {
		assert.Equal(t, want, c.Classify(name), "name %q", name)
	}
}

func TestModern(t *testing.T) {
	c := Modern()
	tests := map[string]Gender{
		"田中花子": Female,
		"佐藤里":  Female,
		"ハナ":   Female,
		"金子ハナ": Female,
		"田代":   Male,
		"宇佐美":  Male,
		"金子":   Male,
		"ハナオ":  Male,
		"田中太郎": Male,
	}
	for name, want := range tests {
		assert.Equal(t, want, c.Classify(name), "name %q", name)
	}
}

func TestClassifiersDisagree(t *testing.T) {
	var legacy, modern Classifier = Legacy(), Modern()
	assert.Equal(t, Male, legacy.Classify("山本トミ"))
	assert.Equal(t, Female, modern.Classify("山本トミ"))
}
