package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/meibo/pkg/meibo/internalerr"
	"github.com/cognicore/meibo/pkg/meibo/record"
	"github.com/cognicore/meibo/pkg/meibo/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu      sync.RWMutex
	runs    map[string]store.Run
	records map[string][]record.Record
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		runs:    make(map[string]store.Run),
		records: make(map[string][]record.Record),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// CreateRun inserts or replaces a run.
func (s *Store) CreateRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("%w: run id required", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r.RecordCount = 0
	s.runs[r.ID] = r
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	r.RecordCount = len(s.records[id])
	return r, nil
}

// Runs returns the most recent runs first.
func (s *Store) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Run, 0, len(s.runs))
	for id, r := range s.runs {
		r.RecordCount = len(s.records[id])
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// AppendRecords adds records to an existing run.
func (s *Store) AppendRecords(ctx context.Context, runID string, recs []record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		return fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}
	s.records[runID] = append(s.records[runID], recs...)
	return nil
}

// Records returns a copy of a run's records.
func (s *Store) Records(ctx context.Context, runID string) ([]record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.records[runID]
	out := make([]record.Record, len(recs))
	copy(out, recs)
	return out, nil
}
