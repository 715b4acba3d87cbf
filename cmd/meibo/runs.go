package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/meibo/pkg/meibo/internalerr"
	"github.com/cognicore/meibo/pkg/meibo/record"
	"github.com/cognicore/meibo/pkg/meibo/store"
	"github.com/cognicore/meibo/pkg/meibo/store/sqlite"
)

var (
	// runs command flags
	rDB     string
	rLimit  int
	rOutput string
)

func init() {
	runsCmd.PersistentFlags().StringVar(&rDB, "db", "", "SQLite run store (defaults to store.db setting)")
	runsCmd.Flags().IntVar(&rLimit, "limit", 20, "maximum number of runs to list")
	runsExportCmd.Flags().StringVarP(&rOutput, "output", "o", "-", "output CSV path, - for stdout")
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsExportCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored compile runs",
	Long: `List compile runs stored with compile --db, newest first.

Examples:
  meibo runs --db runs.db
  meibo runs show 01J8Z3A7V2Q4M6N8P0R2T4W6Y8 --db runs.db
  meibo runs export 01J8Z3A7V2Q4M6N8P0R2T4W6Y8 --db runs.db -o 1942.csv`,
	Args: cobra.NoArgs,
	RunE: runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print a run's stats as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsExportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Write a run's records as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsExport,
}

func openRunStore(cmd *cobra.Command) (context.Context, store.Store, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	path := settings.Store.DB
	if cmd.Flags().Changed("db") {
		path = rDB
	}
	if path == "" {
		return nil, nil, fmt.Errorf("%w: no run store configured (use --db or MEIBO_STORE_DB)", internalerr.ErrInvalidConfig)
	}
	st, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	return ctx, st, nil
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	ctx, st, err := openRunStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.Runs(ctx, rLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs stored.")
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tYEAR\tRECORDS\tSOURCE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), dash(r.Year), r.RecordCount, r.Source)
	}
	return tw.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	ctx, st, err := openRunStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.GetRun(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), run.StatsJSON)
	return nil
}

func runRunsExport(cmd *cobra.Command, args []string) error {
	ctx, st, err := openRunStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.GetRun(ctx, args[0]); err != nil {
		return err
	}
	recs, err := st.Records(ctx, args[0])
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	if len(recs) == 0 {
		return fmt.Errorf("run %s: %w", args[0], internalerr.ErrNoRecords)
	}
	cols, _ := settings.Columns()
	return writeRecords(cmd.OutOrStdout(), rOutput, recs, record.WriterOptions{Columns: cols, BOM: settings.Output.BOM})
}
