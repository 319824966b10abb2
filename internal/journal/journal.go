// Package journal records processing operations in an SQLite database.
//
// Each pipeline stage of a run appends one Operation: which algorithm ran,
// with which parameters, whether it succeeded and how long it took. The
// journal is optional; the pipeline runs the same without one.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS operations (
	id                TEXT PRIMARY KEY,
	timestamp         INTEGER NOT NULL,
	algorithm         TEXT NOT NULL,
	parameters        TEXT NOT NULL DEFAULT '{}',
	success           INTEGER NOT NULL,
	error_message     TEXT NOT NULL DEFAULT '',
	execution_time_ms INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_operations_timestamp ON operations(timestamp);
`

// Operation is one recorded processing step.
type Operation struct {
	ID              string         `json:"id"`
	Timestamp       time.Time      `json:"timestamp"`
	Algorithm       string         `json:"algorithm"`
	Parameters      map[string]any `json:"parameters"`
	Success         bool           `json:"success"`
	ErrorMessage    string         `json:"error_message,omitempty"`
	ExecutionTimeMs int64          `json:"execution_time_ms"`
}

// Store is an SQLite-backed operation journal. It is safe for concurrent
// use.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("journal: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open: %w", err)
	}
	if path == ":memory:" {
		// Every connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("journal: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: exec schema: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenMemory opens an in-memory journal.
func OpenMemory() (*Store, error) {
	return Open(":memory:")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends op. Empty ID and zero Timestamp are filled in; the stored
// operation is returned.
func (s *Store) Record(ctx context.Context, op Operation) (Operation, error) {
	if op.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return op, fmt.Errorf("journal: generate id: %w", err)
		}
		op.ID = id.String()
	}
	if op.Timestamp.IsZero() {
		op.Timestamp = time.Now()
	}
	op.Timestamp = op.Timestamp.UTC().Truncate(time.Millisecond)
	if op.Parameters == nil {
		op.Parameters = map[string]any{}
	}

	params, err := json.Marshal(op.Parameters)
	if err != nil {
		return op, fmt.Errorf("journal: encode parameters: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO operations (id, timestamp, algorithm, parameters, success, error_message, execution_time_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		op.ID, op.Timestamp.UnixMilli(), op.Algorithm, string(params),
		boolToInt(op.Success), op.ErrorMessage, op.ExecutionTimeMs)
	if err != nil {
		return op, fmt.Errorf("journal: insert operation: %w", err)
	}
	return op, nil
}

// List returns up to limit operations, newest first. A limit of zero or
// less returns every operation.
func (s *Store) List(ctx context.Context, limit int) ([]Operation, error) {
	query := `SELECT id, timestamp, algorithm, parameters, success, error_message, execution_time_ms
		FROM operations ORDER BY timestamp DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: list operations: %w", err)
	}
	defer rows.Close()

	ops := make([]Operation, 0)
	for rows.Next() {
		var (
			op      Operation
			ts      int64
			params  string
			success int
		)
		if err := rows.Scan(&op.ID, &ts, &op.Algorithm, &params, &success, &op.ErrorMessage, &op.ExecutionTimeMs); err != nil {
			return nil, fmt.Errorf("journal: scan operation: %w", err)
		}
		op.Timestamp = time.UnixMilli(ts).UTC()
		op.Success = success != 0
		if err := json.Unmarshal([]byte(params), &op.Parameters); err != nil {
			return nil, fmt.Errorf("journal: decode parameters of %s: %w", op.ID, err)
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
