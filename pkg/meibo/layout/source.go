package layout

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/meibo/pkg/meibo/fragment"
)

// Options configures LoadDir.
type Options struct {
	ColumnTolerance float64
	Logger          *zap.Logger
}

// LoadDir walks dir for OCR XML files (METS manifests excluded) and
// returns their lines as unlabelled fragments in reading order. Files
// that fail to parse are skipped with a warning.
func LoadDir(ctx context.Context, dir string, opts Options) ([]fragment.Fragment, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		if filepath.Ext(name) != ".xml" || strings.Contains(name, "mets") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	sort.SliceStable(files, func(i, j int) bool {
		pi, pj := PageNumber(files[i]), PageNumber(files[j])
		if pi != pj {
			return pi < pj
		}
		return files[i] < files[j]
	})

	var frags []fragment.Fragment
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages, err := parseFile(path)
		if err != nil {
			logger.Warn("skipping unreadable OCR file", zap.String("path", path), zap.Error(err))
			continue
		}
		page := PageNumber(path)
		frags = append(frags, Fragments(pages, page, opts.ColumnTolerance, len(frags))...)
	}
	logger.Info("loaded OCR directory",
		zap.String("dir", dir),
		zap.Int("files", len(files)),
		zap.Int("fragments", len(frags)))
	return frags, nil
}

// Fragments flattens the crops of one page into ordered fragments.
// sortBase offsets SortOrder so fragments of several pages stay unique.
func Fragments(pages map[string][]Line, page int, tolerance float64, sortBase int) []fragment.Fragment {
	names := make([]string, 0, len(pages))
	for name := range pages {
		names = append(names, name)
	}

	var out []fragment.Fragment
	label := strconv.Itoa(page)
	for _, image := range ImageOrder(names) {
		for _, l := range SortColumns(pages[image], tolerance) {
			out = append(out, fragment.Fragment{
				Text:      l.Text,
				Role:      fragment.RoleUnknown,
				Page:      page,
				PageLabel: label,
				Image:     image,
				X:         l.X,
				Y:         l.Y,
				Folder:    label,
				SortOrder: sortBase + len(out),
			})
		}
	}
	return out
}

func parseFile(path string) (map[string][]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseXML(f)
}
