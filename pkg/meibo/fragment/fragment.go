package fragment

import (
	"strconv"
	"strings"
)

// Role is the coarse label the upstream labeler attaches to a line.
type Role int

const (
	RoleUnknown Role = iota
	RoleOffice
	RolePosition
	RolePositionAndName
	RoleName
	RoleDrafted
)

var roleNames = map[Role]string{
	RoleUnknown:         "Unknown",
	RoleOffice:          "Office",
	RolePosition:        "Position",
	RolePositionAndName: "Position_and_Name",
	RoleName:            "Name",
	RoleDrafted:         "Drafted",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "Unknown"
}

// ParseRole maps a labeler label to a Role. Labels it does not know,
// including AddressSudachi, are RoleUnknown.
func ParseRole(label string) Role {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "office":
		return RoleOffice
	case "position":
		return RolePosition
	case "position_and_name", "positionandname":
		return RolePositionAndName
	case "name", "namesudachi":
		return RoleName
	case "drafted":
		return RoleDrafted
	default:
		return RoleUnknown
	}
}

// Fragment is one OCR-detected line with its layout metadata.
// Fragments are produced once by a source and never mutated.
type Fragment struct {
	Text      string
	Role      Role
	Page      int    // 0 when the source carried no usable number
	PageLabel string // page identifier as written by the source
	Image     string // sub-crop identifier
	X, Y      int
	Folder    string
	SortOrder int

	// Pre-split fields of v2 inputs. HasFields reports whether the
	// source carried them at all.
	HasFields bool
	Position  string
	Name      string
	Salary    string
	Rank      string
	Grade     string
}

// PageKey identifies the page a fragment belongs to.
func (f Fragment) PageKey() string {
	if f.PageLabel != "" {
		return f.PageLabel
	}
	if f.Page > 0 {
		return strconv.Itoa(f.Page)
	}
	return f.Folder
}

// PageRange bounds the pages a run keeps. A zero bound is open.
type PageRange struct {
	Start int
	End   int
}

// Bounded reports whether either bound is set.
func (pr PageRange) Bounded() bool {
	return pr.Start > 0 || pr.End > 0
}

// Contains reports whether page lies within the range. Unnumbered pages
// only pass an unbounded range.
func (pr PageRange) Contains(page int) bool {
	if !pr.Bounded() {
		return true
	}
	if page <= 0 {
		return false
	}
	if pr.Start > 0 && page < pr.Start {
		return false
	}
	if pr.End > 0 && page > pr.End {
		return false
	}
	return true
}

// Filter drops fragments outside the range, preserving order.
func (pr PageRange) Filter(frags []Fragment) []Fragment {
	if !pr.Bounded() {
		return frags
	}
	out := make([]Fragment, 0, len(frags))
	for _, f := range frags {
		if pr.Contains(f.Page) {
			out = append(out, f)
		}
	}
	return out
}
