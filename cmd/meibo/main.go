// Package main implements the meibo CLI: compile yearbook OCR into
// personnel CSV, inspect how single strings classify, and list stored
// runs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/meibo/internal/config"
	"github.com/cognicore/meibo/internal/logging"
)

var (
	// configPath is the optional YAML settings file
	configPath string
	logLevel   string
	logFormat  string

	// settings and logger are ready once PersistentPreRunE has run
	settings *config.Config
	logger   = zap.NewNop()

	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "meibo",
	Short: "Compile Tokyo yearbook OCR into personnel records",
	Long: `meibo walks OCR'd lines of the Tokyo-shi and Tokyo-fu yearbooks in
reading order and emits one row per official: office, position, grade,
name, salary and rank, draft status and two gender estimates.

Settings come from defaults, then --config, then MEIBO_* environment
variables, then flags.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { _ = logger.Sync() },
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML settings file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: json or console")
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(runsCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	l, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	settings = cfg
	logger = l
	return nil
}
