package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	pkgconfig "github.com/cognicore/meibo/pkg/meibo/config"
	"github.com/cognicore/meibo/pkg/meibo/gender"
	"github.com/cognicore/meibo/pkg/meibo/metadata"
	"github.com/cognicore/meibo/pkg/meibo/noise"
	"github.com/cognicore/meibo/pkg/meibo/normalize"
)

var (
	// inspect command flags
	iCrosswalk string
	iColumn    string
	iAnalyzer  string
	iJSON      bool
)

func init() {
	f := inspectCmd.Flags()
	f.StringVar(&iCrosswalk, "crosswalk", "", "position crosswalk CSV")
	f.StringVar(&iColumn, "column", "", "crosswalk alias column")
	f.StringVar(&iAnalyzer, "analyzer", "", "name analyzer: kagome or heuristic")
	f.BoolVar(&iJSON, "json", false, "output results as JSON")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [text]...",
	Short: "Show how strings classify",
	Long: `Show office, title, metadata, name plausibility, gender and noise
verdicts for each string. Reads one string per line from stdin when no
arguments are given.

Examples:
  meibo inspect 庶務課 課長田中太郎 "山本トミ 月七五"
  cut -d, -f1 names.txt | meibo inspect --analyzer heuristic --json`,
	RunE: runInspect,
}

// Inspection is the verdict set for one string.
type Inspection struct {
	Text         string        `json:"text"`
	Compact      string        `json:"compact"`
	Office       bool          `json:"office"`
	Header       bool          `json:"header"`
	Title        string        `json:"title,omitempty"`
	Grade        string        `json:"grade,omitempty"`
	Remainder    string        `json:"remainder,omitempty"`
	Cleaned      string        `json:"cleaned"`
	Salary       string        `json:"salary,omitempty"`
	Rank         string        `json:"rank,omitempty"`
	Plausible    bool          `json:"plausible"`
	GenderLegacy gender.Gender `json:"gender_legacy"`
	GenderModern gender.Gender `json:"gender_modern"`
	Noise        noise.Signal  `json:"noise,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	loader := &pkgconfig.Loader{
		CrosswalkPath:  settings.Lookup.Crosswalk,
		Column:         settings.Lookup.Column,
		VocabularyPath: settings.Lookup.Vocabulary,
		Analyzer:       settings.Compile.Analyzer,
	}
	if f.Changed("crosswalk") {
		loader.CrosswalkPath = iCrosswalk
	}
	if f.Changed("column") {
		loader.Column = iColumn
	}
	if f.Changed("analyzer") {
		loader.Analyzer = iAnalyzer
	}
	comp, err := loader.Load(logger)
	if err != nil {
		return err
	}

	texts := args
	if len(texts) == 0 {
		if texts, err = readLines(cmd.InOrStdin()); err != nil {
			return err
		}
	}

	out := make([]Inspection, 0, len(texts))
	for _, t := range texts {
		out = append(out, inspect(comp, t))
	}

	w := cmd.OutOrStdout()
	if iJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TEXT\tOFFICE\tTITLE\tNAME\tPLAUSIBLE\tLEGACY\tMODERN\tSALARY\tRANK\tNOISE")
	for _, in := range out {
		fmt.Fprintf(tw, "%s\t%t\t%s\t%s\t%t\t%s\t%s\t%s\t%s\t%s\n",
			in.Text, in.Office, dash(in.Title), dash(in.Cleaned), in.Plausible,
			dash(string(in.GenderLegacy)), dash(string(in.GenderModern)),
			dash(in.Salary), dash(in.Rank), dash(string(in.Noise)))
	}
	return tw.Flush()
}

func inspect(comp *pkgconfig.Components, text string) Inspection {
	compact := normalize.Compact(text)
	in := Inspection{
		Text:    normalize.Text(text),
		Compact: compact,
		Office:  comp.Offices.IsOffice(text),
		Header:  comp.Offices.IsHeader(text),
	}

	nameText := compact
	if split := comp.Positions.Split(compact); split.OK {
		in.Title, in.Grade, in.Remainder = split.Title, split.Grade, split.Remainder
		nameText = split.Remainder
	}
	meta := metadata.Extract(nameText)
	in.Cleaned, in.Salary, in.Rank = meta.Cleaned, meta.Salary, meta.Rank
	if in.Grade == "" {
		in.Grade = meta.Grade
	}

	in.Plausible = comp.Oracle.IsPlausible(in.Cleaned)
	if in.Plausible {
		in.GenderLegacy = comp.Legacy.Classify(in.Cleaned)
		in.GenderModern = comp.Modern.Classify(in.Cleaned)
	}
	in.Noise = comp.Noise.Check(noise.Candidate{Raw: compact, Name: in.Cleaned, PositionMatched: in.Title != ""}).Signal
	return in
}

func readLines(r io.Reader) ([]string, error) {
	if r == nil {
		r = os.Stdin
	}
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return lines, nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
