package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cognicore/meibo/pkg/meibo/internalerr"
	"github.com/cognicore/meibo/pkg/meibo/record"
	"github.com/cognicore/meibo/pkg/meibo/store"
)

var _ store.Store = (*Store)(nil)

func TestRunsAndRecords(t *testing.T) {
	ctx := context.Background()
	s := New()

	base := time.Now()
	for i, id := range []string{"A", "B"} {
		if err := s.CreateRun(ctx, store.Run{ID: id, StartedAt: base.Add(time.Duration(i) * time.Second)}); err != nil {
			t.Fatalf("CreateRun: %v", err)
		}
	}
	if err := s.AppendRecords(ctx, "A", []record.Record{{Name: "田中太郎"}, {Name: "鈴木一郎"}}); err != nil {
		t.Fatalf("AppendRecords: %v", err)
	}

	runs, err := s.Runs(ctx, 0)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "B" {
		t.Fatalf("expected B first, got %+v", runs)
	}
	if runs[1].RecordCount != 2 {
		t.Errorf("RecordCount = %d, want 2", runs[1].RecordCount)
	}

	recs, _ := s.Records(ctx, "A")
	recs[0].Name = "changed"
	again, _ := s.Records(ctx, "A")
	if again[0].Name != "田中太郎" {
		t.Error("Records should return a copy")
	}

	if _, err := s.GetRun(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.AppendRecords(ctx, "missing", nil); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.CreateRun(ctx, store.Run{ID: "run"}); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.AppendRecords(ctx, "run", []record.Record{{Name: "田中"}})
		}()
	}
	wg.Wait()

	r, err := s.GetRun(ctx, "run")
	if err != nil {
		t.Fatal(err)
	}
	if r.RecordCount != 8 {
		t.Errorf("RecordCount = %d, want 8", r.RecordCount)
	}
}
