package compiler

import "github.com/cognicore/meibo/pkg/meibo/fragment"

// row is a set of name-bearing fragments printed at the same height.
type row struct {
	size int // names on the row
	seen int // names already emitted
}

// rowPlan maps fragment indexes to their row. The zero plan has no rows.
type rowPlan struct {
	byFrag map[int]*row
}

func (p rowPlan) row(i int) *row {
	if p.byFrag == nil {
		return nil
	}
	return p.byFrag[i]
}

type rowAnchor struct {
	page, image string
	y           int
	row         *row
}

// planRows buckets name-bearing fragments by page, image and y. A
// fragment joins the first open row whose anchor is within tolerance.
// Office and position headers close every open row, so names on either
// side of a header never share one.
func planRows(frags []fragment.Fragment, analyses []analysis, tolerance int) rowPlan {
	plan := rowPlan{byFrag: make(map[int]*row)}
	var anchors []rowAnchor
	for i, f := range frags {
		a := analyses[i]
		if a.kind == kindOffice || a.kind == kindPosition {
			anchors = nil
			continue
		}
		if a.kind != kindNames {
			continue
		}
		page := f.PageKey()
		var r *row
		for _, an := range anchors {
			if an.page == page && an.image == f.Image && abs(an.y-f.Y) <= tolerance {
				r = an.row
				break
			}
		}
		if r == nil {
			r = &row{}
			anchors = append(anchors, rowAnchor{page: page, image: f.Image, y: f.Y, row: r})
		}
		r.size += len(a.entries)
		plan.byFrag[i] = r
	}
	return plan
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
