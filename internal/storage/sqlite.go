// Package storage persists verification run history in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazz-dev/readyprobe/internal/check"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TEXT    NOT NULL,
    passed     INTEGER NOT NULL,
    total      INTEGER NOT NULL,
    ready      INTEGER NOT NULL CHECK(ready IN (0, 1))
);

CREATE TABLE IF NOT EXISTS results (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id  INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    name    TEXT    NOT NULL,
    status  TEXT    NOT NULL CHECK(status IN ('pass', 'fail', 'warn')),
    message TEXT    NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
`

// Run is a stored verification run.
type Run struct {
	ID        int64     `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Passed    int       `json:"passed"`
	Total     int       `json:"total"`
	Ready     bool      `json:"ready"`
}

// Result is a stored check result belonging to a run.
type Result struct {
	ID      int64  `json:"-"`
	RunID   int64  `json:"-"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DB wraps a SQLite database.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and applies the schema.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite at %q: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// InsertRun persists a report and its results in one transaction, returning
// the new run ID.
func (d *DB) InsertRun(ctx context.Context, rep *check.Report) (int64, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, passed, total, ready) VALUES (?, ?, ?, ?)`,
		rep.StartedAt.UTC().Format(time.RFC3339Nano),
		rep.Passed(),
		rep.Total(),
		rep.AllPassed(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, r := range rep.Results {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO results (run_id, name, status, message) VALUES (?, ?, ?, ?)`,
			runID, r.Name, string(r.Status), r.Message,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting result %q: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// LatestRun returns the most recent run and its results, or nil if the
// history is empty.
func (d *DB) LatestRun(ctx context.Context) (*Run, []Result, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT id, started_at, passed, total, ready FROM runs ORDER BY id DESC LIMIT 1`,
	)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("querying latest run: %w", err)
	}

	results, err := d.runResults(ctx, run.ID)
	if err != nil {
		return nil, nil, err
	}
	return run, results, nil
}

// RunHistory returns paginated runs, newest first, plus the total count.
func (d *DB) RunHistory(ctx context.Context, limit, offset int) ([]Run, int, error) {
	var total int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting runs: %w", err)
	}

	rows, err := d.db.QueryContext(ctx,
		`SELECT id, started_at, passed, total, ready FROM runs ORDER BY id DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("querying run history: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning run row: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating run rows: %w", err)
	}
	return runs, total, nil
}

// ReadyRatePercent returns the percentage of ready runs among the last N.
func (d *DB) ReadyRatePercent(ctx context.Context, last int) (float64, error) {
	var total int
	var readyCount sql.NullInt64
	err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*), SUM(ready)
		FROM (
			SELECT ready FROM runs ORDER BY id DESC LIMIT ?
		)
	`, last).Scan(&total, &readyCount)
	if err != nil {
		return 0, fmt.Errorf("calculating ready rate: %w", err)
	}
	if total == 0 {
		return 0, nil
	}
	return float64(readyCount.Int64) / float64(total) * 100, nil
}

func (d *DB) runResults(ctx context.Context, runID int64) ([]Result, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, run_id, name, status, message FROM results WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying results for run %d: %w", runID, err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.RunID, &r.Name, &r.Status, &r.Message); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating result rows: %w", err)
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var startedAt string
	if err := row.Scan(&run.ID, &startedAt, &run.Passed, &run.Total, &run.Ready); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		// Fallback to RFC3339 without sub-second precision.
		t, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing started_at %q: %w", startedAt, err)
		}
	}
	run.StartedAt = t
	return &run, nil
}
