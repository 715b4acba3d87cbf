package analytics

import (
	"sort"

	"github.com/cognicore/meibo/pkg/meibo/gender"
	"github.com/cognicore/meibo/pkg/meibo/record"
)

// Analyzer aggregates record-level counts for a run summary.
type Analyzer struct {
	total           int
	drafted         int
	isName          int
	positionMatched int
	officeAssigned  int
	legacy          map[gender.Gender]int
	modern          map[gender.Gender]int
	bothClassified  int
	disagreements   int
	offices         map[string]int
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		legacy:  make(map[gender.Gender]int),
		modern:  make(map[gender.Gender]int),
		offices: make(map[string]int),
	}
}

// Process consumes one record.
func (a *Analyzer) Process(r record.Record) {
	a.total++
	if r.Drafted {
		a.drafted++
	}
	if r.IsName {
		a.isName++
	}
	if r.Position != "" && r.Position != record.UnknownPosition {
		a.positionMatched++
	}
	if r.Office != "" && r.Office != record.UnknownOffice {
		a.officeAssigned++
		a.offices[r.Office]++
	}
	a.legacy[r.GenderLegacy]++
	a.modern[r.GenderModern]++
	if classified(r.GenderLegacy) && classified(r.GenderModern) {
		a.bothClassified++
		if r.GenderLegacy != r.GenderModern {
			a.disagreements++
		}
	}
}

// ProcessAll consumes records in order.
func (a *Analyzer) ProcessAll(recs []record.Record) {
	for _, r := range recs {
		a.Process(r)
	}
}

// OfficeCount is the number of records under one office.
type OfficeCount struct {
	Office  string `json:"office"`
	Records int    `json:"records"`
}

// Summary is a snapshot of the aggregated counts.
type Summary struct {
	Total           int            `json:"total"`
	Drafted         int            `json:"drafted"`
	IsName          int            `json:"is_name"`
	NotName         int            `json:"not_name"`
	PositionMatched int            `json:"position_matched"`
	OfficeAssigned  int            `json:"office_assigned"`
	GenderLegacy    map[string]int `json:"gender_legacy"`
	GenderModern    map[string]int `json:"gender_modern"`
	// BothClassified counts records both classifiers labelled male or
	// female; Disagreements is the subset where they differ.
	BothClassified int           `json:"both_classified"`
	Disagreements  int           `json:"disagreements"`
	Offices        []OfficeCount `json:"offices,omitempty"`
}

// DisagreementRate returns Disagreements over BothClassified.
func (s Summary) DisagreementRate() float64 {
	if s.BothClassified == 0 {
		return 0
	}
	return float64(s.Disagreements) / float64(s.BothClassified)
}

// Snapshot returns the current summary. Offices are ordered by record
// count, then name.
func (a *Analyzer) Snapshot() Summary {
	s := Summary{
		Total:           a.total,
		Drafted:         a.drafted,
		IsName:          a.isName,
		NotName:         a.total - a.isName,
		PositionMatched: a.positionMatched,
		OfficeAssigned:  a.officeAssigned,
		GenderLegacy:    genderCounts(a.legacy),
		GenderModern:    genderCounts(a.modern),
		BothClassified:  a.bothClassified,
		Disagreements:   a.disagreements,
	}
	for office, n := range a.offices {
		s.Offices = append(s.Offices, OfficeCount{Office: office, Records: n})
	}
	sort.Slice(s.Offices, func(i, j int) bool {
		if s.Offices[i].Records != s.Offices[j].Records {
			return s.Offices[i].Records > s.Offices[j].Records
		}
		return s.Offices[i].Office < s.Offices[j].Office
	})
	return s
}

func classified(g gender.Gender) bool {
	return g == gender.Male || g == gender.Female
}

func genderCounts(m map[gender.Gender]int) map[string]int {
	out := make(map[string]int, len(m))
	for g, n := range m {
		out[string(g)] = n
	}
	return out
}
