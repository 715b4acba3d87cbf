package layout

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultColumnTolerance is the centre-x distance, in pixels, within
// which two lines belong to the same column.
const DefaultColumnTolerance = 30.0

// UnnumberedPage sorts files without a page number last.
const UnnumberedPage = 999999

// SortColumns orders lines for vertical Japanese text. Lines are grouped
// into columns by centre-x, columns run right to left by their mean x,
// and lines run top to bottom inside each column.
func SortColumns(lines []Line, tolerance float64) []Line {
	if len(lines) == 0 {
		return nil
	}
	if tolerance <= 0 {
		tolerance = DefaultColumnTolerance
	}

	byX := make([]Line, len(lines))
	copy(byX, lines)
	sort.SliceStable(byX, func(i, j int) bool { return byX[i].X > byX[j].X })

	var columns [][]Line
	for _, l := range byX {
		centre := centreX(l)
		placed := false
		for ci, col := range columns {
			var sum float64
			for _, cl := range col {
				sum += centreX(cl)
			}
			if abs(centre-sum/float64(len(col))) < tolerance {
				columns[ci] = append(col, l)
				placed = true
				break
			}
		}
		if !placed {
			columns = append(columns, []Line{l})
		}
	}

	sort.SliceStable(columns, func(i, j int) bool {
		return meanX(columns[i]) > meanX(columns[j])
	})

	out := make([]Line, 0, len(lines))
	for _, col := range columns {
		sort.SliceStable(col, func(i, j int) bool { return col[i].Y < col[j].Y })
		out = append(out, col...)
	}
	return out
}

// ImageOrder sorts page crops: right before left, then top, middle,
// bottom, then by name.
func ImageOrder(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.SliceStable(out, func(i, j int) bool {
		si, vi := imageRank(out[i])
		sj, vj := imageRank(out[j])
		if si != sj {
			return si < sj
		}
		if vi != vj {
			return vi < vj
		}
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

func imageRank(name string) (side, vertical int) {
	name = strings.ToLower(name)
	if strings.Contains(name, "left") {
		side = 1
	}
	switch {
	case strings.Contains(name, "top"):
		vertical = 0
	case strings.Contains(name, "middle"), strings.Contains(name, "mid"):
		vertical = 1
	case strings.Contains(name, "bottom"), strings.Contains(name, "bot"):
		vertical = 2
	}
	return side, vertical
}

var (
	pageInPath = regexp.MustCompile(`Page(\d+)`)
	anyNumber  = regexp.MustCompile(`(\d+)`)
)

// PageNumber reads the page number of an OCR file: "Page<n>" anywhere in
// the path, else the first number in the file name.
func PageNumber(path string) int {
	m := pageInPath.FindStringSubmatch(path)
	if m == nil {
		m = anyNumber.FindStringSubmatch(filepath.Base(path))
	}
	if m == nil {
		return UnnumberedPage
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return UnnumberedPage
	}
	return n
}

func centreX(l Line) float64 {
	return float64(l.X) + float64(l.W)/2
}

func meanX(col []Line) float64 {
	var sum float64
	for _, l := range col {
		sum += float64(l.X)
	}
	return sum / float64(len(col))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
