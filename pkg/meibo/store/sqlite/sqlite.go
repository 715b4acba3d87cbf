package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/meibo/pkg/meibo/gender"
	"github.com/cognicore/meibo/pkg/meibo/internalerr"
	"github.com/cognicore/meibo/pkg/meibo/record"
	"github.com/cognicore/meibo/pkg/meibo/store"
)

// timeLayout has fixed width so started_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	year TEXT,
	source TEXT,
	started_at TEXT NOT NULL,
	stats_json TEXT
);

CREATE TABLE IF NOT EXISTS records (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	year TEXT,
	office TEXT,
	position TEXT,
	grade TEXT,
	name TEXT,
	raw_text TEXT,
	salary TEXT,
	rank TEXT,
	is_name INTEGER NOT NULL DEFAULT 0,
	gender_legacy TEXT,
	gender_modern TEXT,
	drafted INTEGER NOT NULL DEFAULT 0,
	page TEXT,
	image TEXT,
	x INTEGER,
	y INTEGER,
	PRIMARY KEY(run_id, seq),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_records_office ON records(office);
CREATE INDEX IF NOT EXISTS idx_records_name ON records(name);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// CreateRun inserts a run.
func (s *sqliteStore) CreateRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("%w: run id required", internalerr.ErrInvalidInput)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (id, year, source, started_at, stats_json)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	year=excluded.year,
	source=excluded.source,
	started_at=excluded.started_at,
	stats_json=excluded.stats_json;
`, r.ID, r.Year, r.Source, r.StartedAt.UTC().Format(timeLayout), r.StatsJSON)
	return err
}

const runColumns = `
SELECT r.id, r.year, r.source, r.started_at, r.stats_json,
	(SELECT COUNT(*) FROM records WHERE run_id = r.id)
FROM runs r`

// GetRun returns a run by ID.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	row := s.db.QueryRowContext(ctx, runColumns+` WHERE r.id = ?;`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return r, err
}

// Runs returns the most recent runs first.
func (s *sqliteStore) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, runColumns+` ORDER BY r.started_at DESC, r.id DESC LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (store.Run, error) {
	var (
		r         store.Run
		year      sql.NullString
		source    sql.NullString
		startedAt string
		stats     sql.NullString
	)
	if err := sc.Scan(&r.ID, &year, &source, &startedAt, &stats, &r.RecordCount); err != nil {
		return store.Run{}, err
	}
	r.Year = year.String
	r.Source = source.String
	r.StatsJSON = stats.String
	if t, err := time.Parse(timeLayout, startedAt); err == nil {
		r.StartedAt = t
	}
	return r, nil
}

// AppendRecords adds records to a run after any it already holds.
func (s *sqliteStore) AppendRecords(ctx context.Context, runID string, recs []record.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?;`, runID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}

	var next int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq) + 1, 0) FROM records WHERE run_id = ?;`, runID).Scan(&next); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO records (run_id, seq, year, office, position, grade, name, raw_text, salary, rank,
	is_name, gender_legacy, gender_modern, drafted, page, image, x, y)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range recs {
		if _, err := stmt.ExecContext(ctx, runID, next+i, r.Year, r.Office, r.Position, r.Grade, r.Name,
			r.RawText, r.Salary, r.Rank, boolInt(r.IsName), string(r.GenderLegacy), string(r.GenderModern),
			boolInt(r.Drafted), r.Page, r.Image, r.X, r.Y); err != nil {
			return fmt.Errorf("insert record %d: %w", next+i, err)
		}
	}
	return tx.Commit()
}

// Records returns the records of a run in append order.
func (s *sqliteStore) Records(ctx context.Context, runID string) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT year, office, position, grade, name, raw_text, salary, rank,
	is_name, gender_legacy, gender_modern, drafted, page, image, x, y
FROM records
WHERE run_id = ?
ORDER BY seq;
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []record.Record
	for rows.Next() {
		var (
			r                       record.Record
			isName, drafted         int
			genderLegacy, genderMod string
		)
		if err := rows.Scan(&r.Year, &r.Office, &r.Position, &r.Grade, &r.Name, &r.RawText, &r.Salary, &r.Rank,
			&isName, &genderLegacy, &genderMod, &drafted, &r.Page, &r.Image, &r.X, &r.Y); err != nil {
			return nil, err
		}
		r.IsName = isName != 0
		r.Drafted = drafted != 0
		r.GenderLegacy = gender.Gender(genderLegacy)
		r.GenderModern = gender.Gender(genderMod)
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
