// Package config loads run settings for the meibo commands.
package config

import (
	"fmt"

	"github.com/cognicore/meibo/internal/logging"
	"github.com/cognicore/meibo/pkg/meibo/internalerr"
	"github.com/cognicore/meibo/pkg/meibo/names"
	"github.com/cognicore/meibo/pkg/meibo/record"
)

// Config is the full settings tree.
type Config struct {
	Lookup  LookupConfig   `koanf:"lookup"`
	Compile CompileConfig  `koanf:"compile"`
	Output  OutputConfig   `koanf:"output"`
	Store   StoreConfig    `koanf:"store"`
	Log     logging.Config `koanf:"log"`
}

// LookupConfig points at the reference tables.
type LookupConfig struct {
	Crosswalk  string `koanf:"crosswalk"`
	Column     string `koanf:"column"`
	Vocabulary string `koanf:"vocabulary"`
}

// CompileConfig controls the compiler.
type CompileConfig struct {
	Year         string `koanf:"year"`
	StartPage    int    `koanf:"start_page"`
	EndPage      int    `koanf:"end_page"`
	LayoutAware  bool   `koanf:"layout_aware"`
	RowTolerance int    `koanf:"row_tolerance"`
	Analyzer     string `koanf:"analyzer"`
	SplitNames   bool   `koanf:"split_names"`
	Parallelism  int    `koanf:"parallelism"`
}

// OutputConfig controls the CSV writer.
type OutputConfig struct {
	// Columns is a comma-separated column list; empty means the default
	// set.
	Columns string `koanf:"columns"`
	BOM     bool   `koanf:"bom"`
}

// StoreConfig selects the run store. An empty DB disables persistence.
type StoreConfig struct {
	DB string `koanf:"db"`
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Compile.StartPage < 0 || c.Compile.EndPage < 0 {
		return fmt.Errorf("%w: page bounds must be non-negative", internalerr.ErrInvalidConfig)
	}
	if c.Compile.StartPage > 0 && c.Compile.EndPage > 0 && c.Compile.StartPage > c.Compile.EndPage {
		return fmt.Errorf("%w: start_page %d after end_page %d",
			internalerr.ErrInvalidConfig, c.Compile.StartPage, c.Compile.EndPage)
	}
	if c.Compile.RowTolerance < 0 {
		return fmt.Errorf("%w: row_tolerance must be non-negative", internalerr.ErrInvalidConfig)
	}
	switch c.Compile.Analyzer {
	case names.KindKagome, names.KindHeuristic:
	default:
		return fmt.Errorf("%w: analyzer must be %q or %q, got %q",
			internalerr.ErrInvalidConfig, names.KindKagome, names.KindHeuristic, c.Compile.Analyzer)
	}
	if c.Compile.Parallelism < 1 {
		return fmt.Errorf("%w: parallelism must be at least 1", internalerr.ErrInvalidConfig)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("%w: log: %v", internalerr.ErrInvalidConfig, err)
	}
	return nil
}

// Columns resolves the output column list, falling back to the defaults
// when nothing known is named. Unknown names are returned for the caller
// to warn about.
func (c *Config) Columns() (cols []record.Column, unknown []string) {
	cols, unknown = record.ParseColumns(c.Output.Columns)
	if len(cols) == 0 {
		cols = record.DefaultColumns()
	}
	return cols, unknown
}
