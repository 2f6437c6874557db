// Package store archives solver runs and their steady states in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// ErrRunNotFound is returned when a run id is not archived.
var ErrRunNotFound = errors.New("store: run not found")

// Run is one solver invocation on one model.
type Run struct {
	ID         string
	Model      string
	Species    []string
	Bounds     map[string]int
	StartedAt  time.Time
	FinishedAt time.Time // zero while unfinished
	States     int
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	model       TEXT NOT NULL,
	species     BLOB NOT NULL,
	bounds      BLOB NOT NULL,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL DEFAULT 0,
	states      INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS states (
	run_id  TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	ordinal INTEGER NOT NULL,
	config  BLOB NOT NULL,
	PRIMARY KEY (run_id, ordinal)
);`

// Store is a SQLite result archive. It is safe for concurrent use; writes
// are serialized on a single connection.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the archive at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = "steadyspace.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	for _, stmt := range []string{`PRAGMA foreign_keys = ON`, `PRAGMA busy_timeout = 5000`, schema} {
		if _, err = db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Recording is an open run. States are appended inside one transaction that
// Finish commits; Abort discards the run entirely.
type Recording struct {
	tx      *sql.Tx
	insert  *sql.Stmt
	runID   string
	ordinal int
}

// BeginRun records the start of run and returns its Recording.
func (s *Store) BeginRun(ctx context.Context, run Run) (rec *Recording, retErr error) {
	species, err := json.Marshal(run.Species)
	if err != nil {
		return nil, fmt.Errorf("encode species: %w", err)
	}
	bounds := run.Bounds
	if bounds == nil {
		bounds = map[string]int{}
	}
	boundsData, err := json.Marshal(bounds)
	if err != nil {
		return nil, fmt.Errorf("encode bounds: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO runs(id, model, species, bounds, started_at) VALUES(?,?,?,?,?)`,
		run.ID, run.Model, species, boundsData, run.StartedAt.UnixNano()); err != nil {
		return nil, fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	insert, err := tx.PrepareContext(ctx, `INSERT INTO states(run_id, ordinal, config) VALUES(?,?,?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare states: %w", err)
	}

	return &Recording{tx: tx, insert: insert, runID: run.ID}, nil
}

// AppendState adds the next steady state of the run.
func (r *Recording) AppendState(ctx context.Context, cfg []int) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if _, err = r.insert.ExecContext(ctx, r.runID, r.ordinal, data); err != nil {
		return fmt.Errorf("insert state %d: %w", r.ordinal, err)
	}
	r.ordinal++

	return nil
}

// Finish stamps the run with its end time and state count and commits.
func (r *Recording) Finish(ctx context.Context, finishedAt time.Time) error {
	_ = r.insert.Close()
	if _, err := r.tx.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, states = ? WHERE id = ?`,
		finishedAt.UnixNano(), r.ordinal, r.runID); err != nil {
		_ = r.tx.Rollback()
		return fmt.Errorf("finish run %s: %w", r.runID, err)
	}
	if err := r.tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", r.runID, err)
	}

	return nil
}

// Abort rolls the run back.
func (r *Recording) Abort() {
	_ = r.insert.Close()
	_ = r.tx.Rollback()
}

// States returns the archived steady states of a run in output order.
func (s *Store) States(ctx context.Context, runID string) ([][]int, error) {
	if _, err := s.Run(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT config FROM states WHERE run_id = ? ORDER BY ordinal`, runID)
	if err != nil {
		return nil, fmt.Errorf("select states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out [][]int
	for rows.Next() {
		var data []byte
		if err = rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var cfg []int
		if err = json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("decode state: %w", err)
		}
		out = append(out, cfg)
	}

	return out, rows.Err()
}

// Run returns one archived run.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	return run, err
}

// Runs lists every archived run, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY started_at, id`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}

	return out, rows.Err()
}

const runColumns = `id, model, species, bounds, started_at, finished_at, states`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run               Run
		species, bounds   []byte
		started, finished int64
	)
	if err := sc.Scan(&run.ID, &run.Model, &species, &bounds, &started, &finished, &run.States); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if err := json.Unmarshal(species, &run.Species); err != nil {
		return Run{}, fmt.Errorf("decode species: %w", err)
	}
	if err := json.Unmarshal(bounds, &run.Bounds); err != nil {
		return Run{}, fmt.Errorf("decode bounds: %w", err)
	}
	run.StartedAt = time.Unix(0, started).UTC()
	if finished != 0 {
		run.FinishedAt = time.Unix(0, finished).UTC()
	}

	return run, nil
}
