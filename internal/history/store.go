// Package history persists review runs to a local SQLite database so past
// results can be listed and re-rendered without re-running agents.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	created_at   TIMESTAMP NOT NULL,
	status       TEXT NOT NULL,
	provider     TEXT NOT NULL,
	model        TEXT NOT NULL,
	files        INTEGER NOT NULL,
	findings     INTEGER NOT NULL,
	critical     INTEGER NOT NULL,
	high         INTEGER NOT NULL,
	escalations  INTEGER NOT NULL,
	duration_s   REAL NOT NULL,
	summary      TEXT NOT NULL,
	result_json  BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
`

// Store is the run-history database.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// RunSummary is one row of the history listing.
type RunSummary struct {
	RunID       string
	CreatedAt   time.Time
	Status      core.ReviewStatus
	Provider    string
	Model       string
	Files       int
	Findings    int
	Critical    int
	High        int
	Escalations int
	DurationS   float64
	Summary     string
}

// ErrRunNotFound is returned by Get for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record saves one completed (or failed) run.
func (s *Store) Record(ctx context.Context, result *core.ReviewResult, provider, model string, files int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	counts := core.SeverityCounts(result.ConsolidatedFindings)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, created_at, status, provider, model, files,
			findings, critical, high, escalations, duration_s, summary, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID, result.GeneratedAt.UTC(), string(result.Status), provider, model,
		files, len(result.ConsolidatedFindings), counts[core.SeverityCritical],
		counts[core.SeverityHigh], len(result.Escalations),
		result.TotalExecutionTime, result.Summary, blob)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, created_at, status, provider, model, files,
			findings, critical, high, escalations, duration_s, summary
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var status string
		if err := rows.Scan(&r.RunID, &r.CreatedAt, &status, &r.Provider, &r.Model,
			&r.Files, &r.Findings, &r.Critical, &r.High, &r.Escalations,
			&r.DurationS, &r.Summary); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		r.Status = core.ReviewStatus(status)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get loads the full stored result for one run.
func (s *Store) Get(ctx context.Context, runID string) (*core.ReviewResult, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT result_json FROM runs WHERE run_id = ?`, runID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}

	var result core.ReviewResult
	if err := json.Unmarshal(blob, &result); err != nil {
		return nil, fmt.Errorf("decoding stored run %s: %w", runID, err)
	}
	return &result, nil
}

// ResolvePrefix expands a run id prefix to the full id. It returns
// ErrRunNotFound when nothing matches and an error when the prefix is
// ambiguous.
func (s *Store) ResolvePrefix(ctx context.Context, prefix string) (string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id FROM runs WHERE run_id LIKE ? || '%' LIMIT 2`, prefix)
	if err != nil {
		return "", fmt.Errorf("resolving run prefix: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scanning run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", ErrRunNotFound
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("run id prefix %q is ambiguous", prefix)
	}
}

// Prune deletes runs older than the cutoff, returning how many were removed.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	return res.RowsAffected()
}
