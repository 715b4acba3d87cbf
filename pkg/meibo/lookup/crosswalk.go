package lookup

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/meibo/pkg/meibo/internalerr"
)

// AliasColumns are the crosswalk columns carrying Japanese title text.
var AliasColumns = []string{"Japanese", "DuringWar", "TokyoFu", "Merged", "BeforeWar", "AfterWar"}

var officeFlagColumns = []string{"office", "is_office", "type"}

// LoadCrosswalk reads a crosswalk CSV.
//
// column selects the alias column titles are read from. When it names a
// column the file lacks, the first column is used; when empty, every
// alias column present is merged. Rows flagged in an office, is_office
// or type column feed the header set instead of the titles.
func LoadCrosswalk(path, column string) (*Crosswalk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open crosswalk: %w", err)
	}
	defer f.Close()
	return ReadCrosswalk(f, column)
}

// ReadCrosswalk is LoadCrosswalk over an open stream.
func ReadCrosswalk(r io.Reader, column string) (*Crosswalk, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty crosswalk", internalerr.ErrInvalidInput)
		}
		return nil, fmt.Errorf("read crosswalk header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	titleCols := selectColumns(header, column)
	flagCol := flagColumn(header)

	var titles, headers []string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("read crosswalk: %w", err)
			}
			if row == nil {
				continue
			}
		}
		isOffice := flagCol >= 0 && flagCol < len(row) && truthy(row[flagCol])
		for _, c := range titleCols {
			if c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			if v == "" || strings.EqualFold(v, "nan") {
				continue
			}
			if isOffice {
				headers = append(headers, v)
			} else {
				titles = append(titles, v)
			}
		}
	}
	return &Crosswalk{Titles: NewTitles(titles), Headers: NewHeaders(headers)}, nil
}

// LoadOrEmpty loads the crosswalk and degrades to empty lookups with a
// warning when the file cannot be read.
func LoadOrEmpty(path, column string, logger *zap.Logger) *Crosswalk {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		logger.Warn("no crosswalk configured, title and header matching disabled")
		return Empty()
	}
	cw, err := LoadCrosswalk(path, column)
	if err != nil {
		logger.Warn("crosswalk unavailable, continuing with empty lookups",
			zap.String("path", path), zap.Error(err))
		return Empty()
	}
	logger.Info("loaded crosswalk",
		zap.String("path", path),
		zap.Int("titles", cw.Titles.Len()),
		zap.Int("headers", cw.Headers.Len()))
	return cw
}

func selectColumns(header []string, column string) []int {
	if column != "" {
		for i, h := range header {
			if h == column {
				return []int{i}
			}
		}
		if len(header) == 0 {
			return nil
		}
		return []int{0}
	}
	var cols []int
	for _, alias := range AliasColumns {
		for i, h := range header {
			if h == alias {
				cols = append(cols, i)
			}
		}
	}
	return cols
}

func flagColumn(header []string) int {
	for i, h := range header {
		for _, name := range officeFlagColumns {
			if strings.EqualFold(h, name) {
				return i
			}
		}
	}
	return -1
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "office":
		return true
	}
	return false
}
