package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		in   string
		want Result
	}{
		{"田中太郎", Result{Cleaned: "田中太郎"}},
		{"田中太郎月七五", Result{Cleaned: "田中太郎", Salary: "七五"}},
		{"正八田中太郎", Result{Cleaned: "田中太郎", Rank: "正八"}},
		{"従七位鈴木一郎月八五〇", Result{Cleaned: "鈴木一郎", Salary: "八五〇", Rank: "従七位"}},
		{"七上田中太郎", Result{Cleaned: "田中太郎", Grade: "七上"}},
		{"奏任 田中、太郎", Result{Cleaned: "田中太郎"}},
		{"兼務七等佐藤花子", Result{Cleaned: "佐藤花子"}},
		{"", Result{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Extract(tt.in), "input %q", tt.in)
	}
}

func TestExtractGradeOnlyAtStart(t *testing.T) {
	res := Extract("田中七上")
	assert.Empty(t, res.Grade)
	assert.Equal(t, "田中七上", res.Cleaned)
}

func TestSplitGrade(t *testing.T) {
	grade, rest := SplitGrade("七上技師田中")
	assert.Equal(t, "七上", grade)
	assert.Equal(t, "技師田中", rest)

	grade, rest = SplitGrade("技師田中")
	assert.Empty(t, grade)
	assert.Equal(t, "技師田中", rest)
}
