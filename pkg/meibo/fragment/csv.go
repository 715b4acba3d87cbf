package fragment

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/cognicore/meibo/pkg/meibo/internalerr"
)

// Schema identifies the column layout of a fragment table.
type Schema int

const (
	SchemaUnknown Schema = iota
	// SchemaV1 is the labeler output: text plus a role label.
	SchemaV1
	// SchemaV2 is the XML extractor output with pre-split position,
	// name, salary, rank and grade.
	SchemaV2
)

func (s Schema) String() string {
	switch s {
	case SchemaV1:
		return "v1"
	case SchemaV2:
		return "v2"
	default:
		return "unknown"
	}
}

// columnMap resolves the cells of one schema to header indexes.
// Missing columns are -1 and read as empty strings.
type columnMap struct {
	text, label, page, image, x, y, folder, sortOrder int
	position, name, salary, rank, grade              int
}

// DetectSchema selects the schema from a header row.
func DetectSchema(header []string) Schema {
	idx := headerIndex(header)
	_, hasRaw := idx["raw_text"]
	_, hasName := idx["name"]
	_, hasPosition := idx["position"]
	_, hasText := idx["text"]
	switch {
	case hasRaw || (hasName && hasPosition):
		return SchemaV2
	case hasText:
		return SchemaV1
	default:
		return SchemaUnknown
	}
}

func newColumnMap(schema Schema, header []string) columnMap {
	idx := headerIndex(header)
	pick := func(names ...string) int {
		for _, n := range names {
			if i, ok := idx[n]; ok {
				return i
			}
		}
		return -1
	}
	cm := columnMap{
		label:     pick("label"),
		page:      pick("page_number", "page", "page_name"),
		image:     pick("image_name", "image"),
		x:         pick("x"),
		y:         pick("y"),
		folder:    pick("folder"),
		sortOrder: pick("sort_order"),
		position:  -1,
		name:      -1,
		salary:    -1,
		rank:      -1,
		grade:     -1,
	}
	if schema == SchemaV2 {
		cm.text = pick("raw_text", "text", "original_text")
		cm.position = pick("position")
		cm.name = pick("name")
		cm.salary = pick("salary")
		cm.rank = pick("rank")
		cm.grade = pick("grade")
	} else {
		cm.text = pick("text")
	}
	return cm
}

// ReadCSV decodes a fragment table. The schema is decided once from the
// header; malformed rows are coerced to empty cells rather than failing
// the read.
func ReadCSV(r io.Reader) ([]Fragment, Schema, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, SchemaUnknown, fmt.Errorf("%w: empty fragment table", internalerr.ErrInvalidInput)
		}
		return nil, SchemaUnknown, fmt.Errorf("read header: %w", err)
	}
	schema := DetectSchema(header)
	if schema == SchemaUnknown {
		return nil, schema, fmt.Errorf("%w: no text or raw_text column", internalerr.ErrInvalidInput)
	}
	cm := newColumnMap(schema, header)

	var frags []Fragment
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				if row == nil {
					continue
				}
			} else {
				return frags, schema, fmt.Errorf("read row: %w", err)
			}
		}
		f := cm.decode(row, schema)
		f.SortOrder = cm.intCell(row, cm.sortOrder, len(frags))
		frags = append(frags, f)
	}
	return frags, schema, nil
}

func (cm columnMap) decode(row []string, schema Schema) Fragment {
	f := Fragment{
		Text:   cm.cell(row, cm.text),
		Role:   ParseRole(cm.cell(row, cm.label)),
		Image:  cm.cell(row, cm.image),
		X:      cm.intCell(row, cm.x, 0),
		Y:      cm.intCell(row, cm.y, 0),
		Folder: cm.cell(row, cm.folder),
	}
	f.PageLabel = cm.cell(row, cm.page)
	if f.PageLabel == "" {
		f.PageLabel = f.Folder
	}
	f.Page = ParsePage(f.PageLabel)

	if schema == SchemaV2 {
		f.HasFields = true
		f.Position = cm.cell(row, cm.position)
		f.Name = cm.cell(row, cm.name)
		f.Salary = cm.cell(row, cm.salary)
		f.Rank = cm.cell(row, cm.rank)
		f.Grade = cm.cell(row, cm.grade)
		if f.Text == "" {
			f.Text = f.Name
			if f.Position != "" && f.Position != "Unknown" {
				f.Text = f.Position + f.Name
			}
		}
	}
	return f
}

func (cm columnMap) cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	v := strings.TrimSpace(row[i])
	switch strings.ToLower(v) {
	case "nan", "none", "null":
		return ""
	}
	return v
}

func (cm columnMap) intCell(row []string, i int, fallback int) int {
	v := cm.cell(row, i)
	if v == "" {
		return fallback
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if fl, err := strconv.ParseFloat(v, 64); err == nil {
		return int(fl)
	}
	return fallback
}

var pageDigits = regexp.MustCompile(`\d+`)

// ParsePage extracts a page number from labels like "12", "12.0" or
// "Page012". It returns 0 when there is none.
func ParsePage(label string) int {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0
	}
	if fl, err := strconv.ParseFloat(label, 64); err == nil {
		return int(fl)
	}
	m := pageDigits.FindString(label)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		h = strings.ToLower(strings.TrimSpace(h))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	return idx
}
