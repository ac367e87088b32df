// Package history keeps a queryable index of past runs in SQLite. The full
// execution records live in the JSON store; this index answers the listing
// and summary questions without loading them.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ciciliostudio/viewpoint/internal/model"
)

// Index is the run-history database.
type Index struct {
	conn *sql.DB
}

// Entry is one indexed run.
type Entry struct {
	ExecutionID  string
	TestCaseID   string
	TestCaseName string
	Status       model.TestStatus
	TotalSteps   int
	PassedSteps  int
	FailedSteps  int
	Duration     float64
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Stats summarizes the whole history.
type Stats struct {
	TotalRuns   int
	Passed      int
	Failed      int
	Errored     int
	SuccessRate float64
}

// Open opens (and initializes) the history database at dbPath. The special
// path ":memory:" keeps everything in memory.
func Open(dbPath string) (*Index, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	idx := &Index{conn: conn}
	if err := idx.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return idx, nil
}

// Close closes the database connection.
func (idx *Index) Close() error {
	return idx.conn.Close()
}

func (idx *Index) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS run_history (
		execution_id TEXT PRIMARY KEY,
		test_case_id TEXT NOT NULL,
		test_case_name TEXT NOT NULL,
		status TEXT NOT NULL,
		total_steps INTEGER NOT NULL,
		passed_steps INTEGER NOT NULL,
		failed_steps INTEGER NOT NULL,
		duration REAL NOT NULL,
		error_message TEXT,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_history_case_id ON run_history(test_case_id);
	CREATE INDEX IF NOT EXISTS idx_history_started_at ON run_history(started_at);
	`
	_, err := idx.conn.Exec(schema)
	return err
}

// Record indexes a finished execution. Recording the same execution twice
// replaces the earlier row.
func (idx *Index) Record(exec *model.TestExecution) error {
	query := `
		INSERT OR REPLACE INTO run_history
			(execution_id, test_case_id, test_case_name, status, total_steps, passed_steps, failed_steps, duration, error_message, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := idx.conn.Exec(query,
		exec.ID,
		exec.TestCaseID,
		exec.TestCaseName,
		string(exec.Status),
		exec.TotalSteps,
		exec.PassedSteps,
		exec.FailedSteps,
		exec.Duration,
		exec.ErrorMessage,
		exec.StartTime,
		exec.EndTime,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first. A non-positive limit
// returns everything.
func (idx *Index) List(limit int) ([]Entry, error) {
	query := `
		SELECT execution_id, test_case_id, test_case_name, status, total_steps, passed_steps, failed_steps, duration, error_message, started_at, finished_at
		FROM run_history
		ORDER BY started_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := idx.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ForCase returns every recorded run of one test case, newest first.
func (idx *Index) ForCase(caseID string) ([]Entry, error) {
	rows, err := idx.conn.Query(`
		SELECT execution_id, test_case_id, test_case_name, status, total_steps, passed_steps, failed_steps, duration, error_message, started_at, finished_at
		FROM run_history
		WHERE test_case_id = ?
		ORDER BY started_at DESC
	`, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs for case %s: %w", caseID, err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		var status string
		var errMsg sql.NullString
		var finished sql.NullTime
		if err := rows.Scan(&e.ExecutionID, &e.TestCaseID, &e.TestCaseName, &status, &e.TotalSteps, &e.PassedSteps, &e.FailedSteps, &e.Duration, &errMsg, &e.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		e.Status = model.TestStatus(status)
		e.ErrorMessage = errMsg.String
		if finished.Valid {
			e.FinishedAt = finished.Time
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Summarize computes overall run statistics.
func (idx *Index) Summarize() (Stats, error) {
	var s Stats
	row := idx.conn.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'passed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'error' THEN 1 ELSE 0 END), 0)
		FROM run_history
	`)
	if err := row.Scan(&s.TotalRuns, &s.Passed, &s.Failed, &s.Errored); err != nil {
		return s, fmt.Errorf("failed to summarize history: %w", err)
	}
	if s.TotalRuns > 0 {
		s.SuccessRate = float64(s.Passed) / float64(s.TotalRuns) * 100
	}
	return s, nil
}
