// Package record defines the compiled personnel row and its CSV form.
package record

import (
	"fmt"
	"strings"

	"github.com/cognicore/meibo/pkg/meibo/gender"
)

// Placeholders written when no context is known.
const (
	UnknownOffice   = "Unknown Office"
	UnknownPosition = "Unknown"
	// StackedPosition marks names that shared a layout row with another
	// name under a non-mass title.
	StackedPosition = "Stacked Employee"
)

// Record is one compiled person.
type Record struct {
	Year         string
	Office       string
	Position     string
	Grade        string
	Name         string
	RawText      string
	Salary       string
	Rank         string
	IsName       bool
	GenderLegacy gender.Gender
	GenderModern gender.Gender
	Drafted      bool
	Page         string
	Image        string
	X, Y         int
}

// Column is an output column name.
type Column string

const (
	ColYear         Column = "year"
	ColOffice       Column = "office"
	ColPosition     Column = "position"
	ColGrade        Column = "grade"
	ColName         Column = "name"
	ColIsName       Column = "is_name"
	ColDrafted      Column = "drafted"
	ColGenderLegacy Column = "gender_legacy"
	ColGenderModern Column = "gender_modern"
	ColSalary       Column = "salary"
	ColRank         Column = "rank"
	ColPage         Column = "page"
	ColImage        Column = "image"
	ColX            Column = "x"
	ColY            Column = "y"
	ColRawText      Column = "raw_text"
)

// AllColumns is every column a record can fill, in output order.
var AllColumns = []Column{
	ColYear, ColOffice, ColPosition, ColGrade, ColName, ColIsName, ColDrafted,
	ColGenderLegacy, ColGenderModern, ColSalary, ColRank, ColPage, ColImage,
	ColX, ColY, ColRawText,
}

// DefaultColumns is AllColumns without raw_text.
func DefaultColumns() []Column {
	cols := make([]Column, 0, len(AllColumns)-1)
	for _, c := range AllColumns {
		if c != ColRawText {
			cols = append(cols, c)
		}
	}
	return cols
}

// ParseColumns reads a comma separated column list. Known names are kept
// in the given order without duplicates; unknown names are returned
// separately so the caller can warn. An empty list yields the defaults.
func ParseColumns(list string) (cols []Column, unknown []string) {
	if strings.TrimSpace(list) == "" {
		return DefaultColumns(), nil
	}
	known := make(map[Column]bool, len(AllColumns))
	for _, c := range AllColumns {
		known[c] = true
	}
	seen := make(map[Column]bool)
	for _, part := range strings.Split(list, ",") {
		name := Column(strings.ToLower(strings.TrimSpace(part)))
		if name == "" {
			continue
		}
		if !known[name] {
			unknown = append(unknown, string(name))
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		cols = append(cols, name)
	}
	return cols, unknown
}

// Value renders the cell of column c.
func (r Record) Value(c Column) string {
	switch c {
	case ColYear:
		return r.Year
	case ColOffice:
		return r.Office
	case ColPosition:
		return r.Position
	case ColGrade:
		return r.Grade
	case ColName:
		return r.Name
	case ColIsName:
		return formatBool(r.IsName)
	case ColDrafted:
		return formatBool(r.Drafted)
	case ColGenderLegacy:
		return string(r.GenderLegacy)
	case ColGenderModern:
		return string(r.GenderModern)
	case ColSalary:
		return r.Salary
	case ColRank:
		return r.Rank
	case ColPage:
		return r.Page
	case ColImage:
		return r.Image
	case ColX:
		return fmt.Sprint(r.X)
	case ColY:
		return fmt.Sprint(r.Y)
	case ColRawText:
		return r.RawText
	}
	return ""
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
