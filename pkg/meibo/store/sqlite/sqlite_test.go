package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/meibo/pkg/meibo/gender"
	"github.com/cognicore/meibo/pkg/meibo/internalerr"
	"github.com/cognicore/meibo/pkg/meibo/record"
	"github.com/cognicore/meibo/pkg/meibo/store"
)

func openTest(t *testing.T) store.Store {
	t.Helper()
	st, err := Open(context.Background(), filepath.Join(t.TempDir(), "meibo.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// TestRunRoundTrip stores a run with records and reads both back
func TestRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)

	started := time.Date(1942, 4, 1, 9, 0, 0, 0, time.UTC)
	run := store.Run{ID: "01J0000000000000000000000A", Year: "1942", Source: "tokyo_1942.csv", StartedAt: started, StatsJSON: `{"records":2}`}
	if err := st.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	recs := []record.Record{
		{Year: "1942", Office: "所得税課", Position: "課長", Name: "田中太郎", IsName: true,
			GenderLegacy: gender.Male, GenderModern: gender.Male, Page: "12", Image: "right_top", X: 10, Y: 20},
		{Year: "1942", Office: "所得税課", Position: "Unknown", Name: "鈴木花子", Salary: "七五", Rank: "正八",
			GenderLegacy: gender.Female, GenderModern: gender.Female, Drafted: true},
	}
	if err := st.AppendRecords(ctx, run.ID, recs[:1]); err != nil {
		t.Fatalf("AppendRecords: %v", err)
	}
	if err := st.AppendRecords(ctx, run.ID, recs[1:]); err != nil {
		t.Fatalf("AppendRecords: %v", err)
	}

	got, err := st.Records(ctx, run.ID)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	for i := range recs {
		if got[i] != recs[i] {
			t.Errorf("record %d mismatch:\n got  %+v\n want %+v", i, got[i], recs[i])
		}
	}

	stored, err := st.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if stored.RecordCount != 2 {
		t.Errorf("RecordCount = %d, want 2", stored.RecordCount)
	}
	if !stored.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", stored.StartedAt, started)
	}
	if stored.StatsJSON != run.StatsJSON || stored.Source != run.Source {
		t.Errorf("run mismatch: %+v", stored)
	}
}

// TestRunsNewestFirst lists runs in reverse start order with a limit
func TestRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"A", "B", "C"} {
		if err := st.CreateRun(ctx, store.Run{ID: id, StartedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("CreateRun %s: %v", id, err)
		}
	}

	runs, err := st.Runs(ctx, 2)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "C" || runs[1].ID != "B" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}

// TestMissingRun reports not found for unknown IDs
func TestMissingRun(t *testing.T) {
	ctx := context.Background()
	st := openTest(t)

	if _, err := st.GetRun(ctx, "nope"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("GetRun: expected ErrNotFound, got %v", err)
	}
	if err := st.AppendRecords(ctx, "nope", []record.Record{{Name: "田中"}}); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("AppendRecords: expected ErrNotFound, got %v", err)
	}
	if err := st.CreateRun(ctx, store.Run{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("CreateRun: expected ErrInvalidInput, got %v", err)
	}
	recs, err := st.Records(ctx, "nope")
	if err != nil || len(recs) != 0 {
		t.Errorf("Records: got %v, %v", recs, err)
	}
}
