// Package metadata strips the salary, court rank and pay grade that the
// yearbooks print inline with a name.
package metadata

import (
	"regexp"
	"strings"
)

var (
	// 月七五, 月八五〇
	salaryRE = regexp.MustCompile(`月([一二三四五六七八九十百〇]+)`)
	// 正八, 従七位
	rankRE = regexp.MustCompile(`([正従從][一二三四五六七八九十]位?)`)
	// 七上, 六下, 五等; only as a prefix
	gradeRE = regexp.MustCompile(`^([一二三四五六七八九十]+[上中下等級])`)
	miscRE  = regexp.MustCompile(`勅任|奏任|判任|[一二三四五六七八九十]+等|技手|嘱託|兼務|休職|待命|出向`)
	sepRE   = regexp.MustCompile(`[\s　,、]+`)
)

// Result is a cleaned name with the metadata removed from it.
type Result struct {
	Cleaned string
	Salary  string
	Rank    string
	Grade   string
}

// Extract removes, in order, the first salary, the first rank, a leading
// grade, every misc appointment or status token, and all separators.
func Extract(text string) Result {
	var res Result

	if m := salaryRE.FindStringSubmatchIndex(text); m != nil {
		res.Salary = text[m[2]:m[3]]
		text = text[:m[0]] + text[m[1]:]
	}
	if m := rankRE.FindStringSubmatchIndex(text); m != nil {
		res.Rank = text[m[2]:m[3]]
		text = text[:m[0]] + text[m[1]:]
	}
	res.Grade, text = SplitGrade(text)

	text = miscRE.ReplaceAllString(text, "")
	text = sepRE.ReplaceAllString(text, "")
	res.Cleaned = strings.TrimSpace(text)
	return res
}

// SplitGrade splits a leading grade token (七上技師 → 七上, 技師).
func SplitGrade(text string) (grade, rest string) {
	m := gradeRE.FindStringSubmatchIndex(text)
	if m == nil {
		return "", text
	}
	return text[m[2]:m[3]], text[m[1]:]
}
