package compiler

import "github.com/cognicore/meibo/pkg/meibo/record"

// State is the office and position context carried across fragments.
// One State exists per document, or per page in layout-aware mode.
type State struct {
	Office   string
	Position string
	// PositionCount is how many people have been assigned Position.
	PositionCount int
	// Grade is printed with the current position header and passes to
	// the people inheriting Position.
	Grade string
}

// NewState returns the context before the first fragment.
func NewState() *State {
	return &State{Office: record.UnknownOffice, Position: record.UnknownPosition}
}

// EnterOffice switches office and blanks the position context.
func (s *State) EnterOffice(office string) {
	s.Office = office
	s.Position = record.UnknownPosition
	s.PositionCount = 0
	s.Grade = ""
}

// EnterPosition starts a new position with no incumbents yet.
func (s *State) EnterPosition(title, grade string) {
	s.Position = title
	s.PositionCount = 0
	s.Grade = grade
}

// assign returns the position of the next person. An explicit title
// replaces the context and counts as its first incumbent. Otherwise a
// single-person title that already has an incumbent does not propagate.
func (s *State) assign(explicit string, single map[string]struct{}) string {
	if explicit != "" {
		s.Position = explicit
		s.PositionCount = 1
		return explicit
	}
	if _, ok := single[s.Position]; ok && s.PositionCount >= 1 {
		return record.UnknownPosition
	}
	s.PositionCount++
	return s.Position
}

// stack moves the context to the stacked-employee label after the first
// name of a shared row.
func (s *State) stack() {
	s.Position = record.StackedPosition
	s.PositionCount = 0
	s.Grade = ""
}
