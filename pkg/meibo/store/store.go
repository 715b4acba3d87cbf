package store

import (
	"context"
	"time"

	"github.com/cognicore/meibo/pkg/meibo/record"
)

// Store persists compile runs and the records they produced.
type Store interface {
	Close() error

	// Runs
	CreateRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	Runs(ctx context.Context, limit int) ([]Run, error)

	// Records
	AppendRecords(ctx context.Context, runID string, recs []record.Record) error
	Records(ctx context.Context, runID string) ([]record.Record, error)
}

// Run is one compile of one document.
type Run struct {
	ID          string // ULID
	Year        string
	Source      string
	StartedAt   time.Time
	StatsJSON   string // compiler stats and analytics summary
	RecordCount int
}
