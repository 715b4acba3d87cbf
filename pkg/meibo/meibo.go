// Package meibo compiles OCR'd Tokyo municipal yearbooks into personnel
// records and optionally persists each compile as a run.
package meibo

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/meibo/pkg/meibo/analytics"
	"github.com/cognicore/meibo/pkg/meibo/compiler"
	"github.com/cognicore/meibo/pkg/meibo/fragment"
	"github.com/cognicore/meibo/pkg/meibo/internalerr"
	"github.com/cognicore/meibo/pkg/meibo/record"
	"github.com/cognicore/meibo/pkg/meibo/store"
)

// Meibo is the main compile facade
type Meibo struct {
	store    store.Store
	compiler *compiler.Compiler
	pages    fragment.PageRange
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Options configures a Meibo instance
type Options struct {
	// Store persists runs when set.
	Store    store.Store
	Compiler *compiler.Compiler
	// Pages drops fragments outside the range before compiling.
	Pages  fragment.PageRange
	Logger *zap.Logger
	Now    func() time.Time
}

// New creates a Meibo instance with the given dependencies
func New(opts Options) *Meibo {
	m := &Meibo{
		store:    opts.Store,
		compiler: opts.Compiler,
		pages:    opts.Pages,
		logger:   opts.Logger,
		now:      opts.Now,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}
	if m.compiler == nil {
		m.compiler = compiler.New(compiler.Options{Logger: opts.Logger})
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Close cleanly shuts down the store, if any
func (m *Meibo) Close() error {
	if m.store == nil {
		return nil
	}
	return m.store.Close()
}

// Document is one source of fragments, compiled with its own state.
type Document struct {
	Source    string
	Fragments []fragment.Fragment
}

// DocumentResult is the outcome of compiling one document.
type DocumentResult struct {
	Source  string
	RunID   string // empty unless a store is configured
	Records []record.Record
	Stats   compiler.Stats
	Summary analytics.Summary
}

// CompileDocument filters, compiles and summarises doc, then persists it
// as a run when a store is configured. A document that yields no records
// is not stored and its RunID stays empty.
func (m *Meibo) CompileDocument(ctx context.Context, doc Document) (*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := m.now()

	frags := m.pages.Filter(doc.Fragments)
	if dropped := len(doc.Fragments) - len(frags); dropped > 0 {
		m.logger.Info("dropped fragments outside page range",
			zap.String("source", doc.Source),
			zap.Int("dropped", dropped),
			zap.Int("start_page", m.pages.Start),
			zap.Int("end_page", m.pages.End))
	}

	res := m.compiler.Compile(frags)
	an := analytics.NewAnalyzer()
	an.ProcessAll(res.Records)

	out := &DocumentResult{
		Source:  doc.Source,
		Records: res.Records,
		Stats:   res.Stats,
		Summary: an.Snapshot(),
	}
	m.logger.Info("compiled document",
		zap.String("source", doc.Source),
		zap.Int("fragments", res.Stats.Fragments),
		zap.Int("records", res.Stats.Records),
		zap.Int("noise", res.Stats.Noise),
		zap.Int("drafted", res.Stats.Drafted))

	switch {
	case m.store == nil:
	case len(out.Records) == 0:
		m.logger.Info("no records, run not stored", zap.String("source", doc.Source))
	default:
		id, err := m.persist(ctx, doc.Source, started, out)
		if err != nil {
			return nil, err
		}
		out.RunID = id
	}
	return out, nil
}

func (m *Meibo) persist(ctx context.Context, source string, started time.Time, res *DocumentResult) (string, error) {
	stats, err := json.Marshal(struct {
		Stats   compiler.Stats    `json:"stats"`
		Summary analytics.Summary `json:"summary"`
	}{res.Stats, res.Summary})
	if err != nil {
		return "", fmt.Errorf("encode run stats: %w", err)
	}

	run := store.Run{
		ID:        m.newID(),
		Year:      m.compiler.Year(),
		Source:    source,
		StartedAt: started,
		StatsJSON: string(stats),
	}
	if err := m.store.CreateRun(ctx, run); err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	if err := m.store.AppendRecords(ctx, run.ID, res.Records); err != nil {
		return "", fmt.Errorf("append records: %w", err)
	}
	return run.ID, nil
}

func (m *Meibo) newID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(m.now()), m.entropy).String()
}

// CompileAll compiles docs concurrently, at most parallelism at a time.
// Results keep the input order. The first error cancels the rest.
func (m *Meibo) CompileAll(ctx context.Context, docs []Document, parallelism int) ([]*DocumentResult, error) {
	if parallelism < 1 {
		parallelism = 1
	}
	results := make([]*DocumentResult, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			res, err := m.CompileDocument(gctx, doc)
			if err != nil {
				return fmt.Errorf("compile %s: %w", doc.Source, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Merged is the concatenation of several document results.
type Merged struct {
	Records []record.Record
	Stats   compiler.Stats
	Summary analytics.Summary
}

// Merge concatenates results in order. It returns ErrNoRecords when no
// document produced a record.
func Merge(results []*DocumentResult) (*Merged, error) {
	out := &Merged{Stats: compiler.Stats{NoiseBySignal: make(map[string]int)}}
	for _, r := range results {
		if r == nil {
			continue
		}
		out.Records = append(out.Records, r.Records...)
		addStats(&out.Stats, r.Stats)
	}
	if len(out.Records) == 0 {
		return nil, internalerr.ErrNoRecords
	}
	an := analytics.NewAnalyzer()
	an.ProcessAll(out.Records)
	out.Summary = an.Snapshot()
	return out, nil
}

func addStats(dst *compiler.Stats, s compiler.Stats) {
	dst.Fragments += s.Fragments
	dst.Noise += s.Noise
	dst.Offices += s.Offices
	dst.Positions += s.Positions
	dst.Drafted += s.Drafted
	dst.DraftedOrphans += s.DraftedOrphans
	dst.Skipped += s.Skipped
	dst.Records += s.Records
	for sig, n := range s.NoiseBySignal {
		dst.NoiseBySignal[sig] += n
	}
}
