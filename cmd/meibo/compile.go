package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/meibo/pkg/meibo"
	pkgconfig "github.com/cognicore/meibo/pkg/meibo/config"
	"github.com/cognicore/meibo/pkg/meibo/compiler"
	"github.com/cognicore/meibo/pkg/meibo/fragment"
	"github.com/cognicore/meibo/pkg/meibo/internalerr"
	"github.com/cognicore/meibo/pkg/meibo/layout"
	"github.com/cognicore/meibo/pkg/meibo/record"
	"github.com/cognicore/meibo/pkg/meibo/store"
	"github.com/cognicore/meibo/pkg/meibo/store/sqlite"
)

var (
	// compile command flags
	cOutput       string
	cCrosswalk    string
	cColumn       string
	cVocabulary   string
	cYear         string
	cColumns      string
	cStartPage    int
	cEndPage      int
	cLayoutAware  bool
	cRowTolerance int
	cAnalyzer     string
	cSplitNames   bool
	cParallelism  int
	cDB           string
	cNoBOM        bool
)

func init() {
	f := compileCmd.Flags()
	f.StringVarP(&cOutput, "output", "o", "-", "output CSV path, - for stdout")
	f.StringVar(&cCrosswalk, "crosswalk", "", "position crosswalk CSV")
	f.StringVar(&cColumn, "column", "", "crosswalk alias column (e.g. DuringWar, Japanese)")
	f.StringVar(&cVocabulary, "vocabulary", "", "YAML vocabulary override")
	f.StringVar(&cYear, "year", "", "year stamped on every record")
	f.StringVar(&cColumns, "columns", "", "comma-separated output columns")
	f.IntVar(&cStartPage, "start-page", 0, "first page to keep")
	f.IntVar(&cEndPage, "end-page", 0, "last page to keep")
	f.BoolVar(&cLayoutAware, "layout-aware", false, "reset context per page and stack names sharing a row")
	f.IntVar(&cRowTolerance, "row-tolerance", 0, "y distance in pixels for names to share a row")
	f.StringVar(&cAnalyzer, "analyzer", "", "name analyzer: kagome or heuristic")
	f.BoolVar(&cSplitNames, "split-names", false, "split name tokens into surname/given-name groups")
	f.IntVar(&cParallelism, "parallelism", 0, "documents compiled concurrently")
	f.StringVar(&cDB, "db", "", "SQLite run store; empty disables persistence")
	f.BoolVar(&cNoBOM, "no-bom", false, "omit the UTF-8 BOM from the output")
}

var compileCmd = &cobra.Command{
	Use:   "compile <input>...",
	Short: "Compile OCR inputs into a personnel CSV",
	Long: `Compile labelled OCR CSV files or directories of OCR XML pages into one
personnel CSV. Each input is compiled with its own office and position
context; records are written in input order.

Examples:
  # Compile a labelled CSV with a crosswalk
  meibo compile 1942_Full_Labeled.csv --crosswalk PositionCrosswalk.csv -o 1942.csv

  # Compile XML pages, resetting context per page
  meibo compile ocr/1937 --layout-aware --year 1937 -o 1937.csv

  # Keep pages 10-40 and store the run
  meibo compile tokyo.csv --start-page 10 --end-page 40 --db runs.db`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

func runCompile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	applyCompileFlags(cmd)
	if err := settings.Validate(); err != nil {
		return err
	}

	loader := &pkgconfig.Loader{
		CrosswalkPath:  settings.Lookup.Crosswalk,
		Column:         settings.Lookup.Column,
		VocabularyPath: settings.Lookup.Vocabulary,
		Analyzer:       settings.Compile.Analyzer,
	}
	comp, err := loader.Load(logger)
	if err != nil {
		return err
	}

	cols, unknown := settings.Columns()
	if len(unknown) > 0 {
		logger.Warn("ignoring unknown output columns", zap.Strings("columns", unknown))
	}

	docs, err := loadDocuments(ctx, args)
	if err != nil {
		return err
	}

	var st store.Store
	if settings.Store.DB != "" {
		st, err = sqlite.Open(ctx, settings.Store.DB)
		if err != nil {
			return fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
		}
	}

	opts := comp.CompilerOptions(logger)
	opts.Year = settings.Compile.Year
	opts.LayoutAware = settings.Compile.LayoutAware
	opts.RowTolerance = settings.Compile.RowTolerance
	opts.SplitNames = settings.Compile.SplitNames

	m := meibo.New(meibo.Options{
		Store:    st,
		Compiler: compiler.New(opts),
		Pages:    fragment.PageRange{Start: settings.Compile.StartPage, End: settings.Compile.EndPage},
		Logger:   logger,
	})
	defer m.Close()

	results, err := m.CompileAll(ctx, docs, settings.Compile.Parallelism)
	if err != nil {
		return err
	}
	merged, err := meibo.Merge(results)
	if errors.Is(err, internalerr.ErrNoRecords) {
		return fmt.Errorf("nothing to write: %w", err)
	}
	if err != nil {
		return err
	}

	if err := writeRecords(cmd.OutOrStdout(), cOutput, merged.Records, record.WriterOptions{Columns: cols, BOM: settings.Output.BOM}); err != nil {
		return err
	}
	printSummary(cmd.ErrOrStderr(), merged, results)
	return nil
}

// applyCompileFlags overrides settings with the flags given explicitly.
func applyCompileFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("crosswalk") {
		settings.Lookup.Crosswalk = cCrosswalk
	}
	if f.Changed("column") {
		settings.Lookup.Column = cColumn
	}
	if f.Changed("vocabulary") {
		settings.Lookup.Vocabulary = cVocabulary
	}
	if f.Changed("year") {
		settings.Compile.Year = cYear
	}
	if f.Changed("columns") {
		settings.Output.Columns = cColumns
	}
	if f.Changed("start-page") {
		settings.Compile.StartPage = cStartPage
	}
	if f.Changed("end-page") {
		settings.Compile.EndPage = cEndPage
	}
	if f.Changed("layout-aware") {
		settings.Compile.LayoutAware = cLayoutAware
	}
	if f.Changed("row-tolerance") {
		settings.Compile.RowTolerance = cRowTolerance
	}
	if f.Changed("analyzer") {
		settings.Compile.Analyzer = cAnalyzer
	}
	if f.Changed("split-names") {
		settings.Compile.SplitNames = cSplitNames
	}
	if f.Changed("parallelism") {
		settings.Compile.Parallelism = cParallelism
	}
	if f.Changed("db") {
		settings.Store.DB = cDB
	}
	if f.Changed("no-bom") {
		settings.Output.BOM = !cNoBOM
	}
}

// loadDocuments reads each input: directories as OCR XML pages, files as
// labelled CSV.
func loadDocuments(ctx context.Context, inputs []string) ([]meibo.Document, error) {
	docs := make([]meibo.Document, 0, len(inputs))
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", in, err)
		}
		if info.IsDir() {
			frags, err := layout.LoadDir(ctx, in, layout.Options{Logger: logger})
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", in, err)
			}
			docs = append(docs, meibo.Document{Source: in, Fragments: frags})
			continue
		}
		frags, err := readCSVFile(in)
		if err != nil {
			return nil, err
		}
		docs = append(docs, meibo.Document{Source: in, Fragments: frags})
	}
	return docs, nil
}

func readCSVFile(path string) ([]fragment.Fragment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	frags, schema, err := fragment.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	logger.Info("loaded fragments",
		zap.String("path", path),
		zap.String("schema", schema.String()),
		zap.Int("fragments", len(frags)))
	return frags, nil
}

func writeRecords(stdout io.Writer, path string, recs []record.Record, opts record.WriterOptions) error {
	out := stdout
	if path != "" && path != "-" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := record.NewWriter(out, opts)
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.Write(recs...); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	logger.Info("wrote records", zap.String("output", path), zap.Int("records", len(recs)))
	return nil
}

func printSummary(w io.Writer, merged *meibo.Merged, results []*meibo.DocumentResult) {
	s := merged.Summary
	fmt.Fprintf(w, "Compiled %d records from %d fragments in %d input(s)\n",
		s.Total, merged.Stats.Fragments, len(results))
	fmt.Fprintf(w, "  Offices: %d  Positions: %d  Noise dropped: %d  Skipped: %d\n",
		merged.Stats.Offices, merged.Stats.Positions, merged.Stats.Noise, merged.Stats.Skipped)
	fmt.Fprintf(w, "  Names: %d plausible, %d not\n", s.IsName, s.NotName)
	fmt.Fprintf(w, "  Drafted: %d (orphan markers: %d)\n", s.Drafted, merged.Stats.DraftedOrphans)
	fmt.Fprintf(w, "  Gender (legacy):  %s\n", formatCounts(s.GenderLegacy))
	fmt.Fprintf(w, "  Gender (modern):  %s\n", formatCounts(s.GenderModern))
	if s.BothClassified > 0 {
		fmt.Fprintf(w, "  Disagreement: %d of %d (%.1f%%)\n", s.Disagreements, s.BothClassified, 100*s.DisagreementRate())
	}
	for _, r := range results {
		if r.RunID != "" {
			fmt.Fprintf(w, "  Run %s: %s (%d records)\n", r.RunID, r.Source, len(r.Records))
		}
	}
}

func formatCounts(m map[string]int) string {
	parts := make([]string, 0, 3)
	for _, k := range []string{"male", "female", ""} {
		label := k
		if label == "" {
			label = "unknown"
		}
		parts = append(parts, fmt.Sprintf("%s=%d", label, m[k]))
	}
	return strings.Join(parts, " ")
}
