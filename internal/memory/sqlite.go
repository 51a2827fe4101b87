package memory

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLite persists records in a SQLite database, partitioned per session.
// It exists for deployments that outgrow the single-writer JSON file: row
// appends replace whole-file rewrites and WAL mode tolerates concurrent
// sessions writing to the same database.
type SQLite struct {
	db        *sql.DB
	sessionID string
}

// NewSQLite opens (or creates) the database at dbPath and scopes all appends
// and reads to the given session id.
func NewSQLite(dbPath, sessionID string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("memory: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("memory: set pragma: %w", err)
		}
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS memory_records (
			id         TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			question   TEXT NOT NULL,
			answer     TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_memory_records_session ON memory_records(session_id, id);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("memory: create table: %w", err)
	}

	return &SQLite{db: db, sessionID: sessionID}, nil
}

// Append inserts one record row.
func (s *SQLite) Append(ctx context.Context, question, answer string) error {
	rec := newRecord(question, answer)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO memory_records (id, session_id, created_at, question, answer)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, s.sessionID, rec.Timestamp, rec.Question, rec.Answer)
	if err != nil {
		return fmt.Errorf("memory: insert record: %w", err)
	}
	return nil
}

// LoadAll returns the session's records in append order. ULIDs sort
// lexicographically by creation time, so ordering by id is ordering by
// append time.
func (s *SQLite) LoadAll(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, question, answer
		FROM memory_records
		WHERE session_id = ?
		ORDER BY id
	`, s.sessionID)
	if err != nil {
		return nil, fmt.Errorf("memory: query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Question, &r.Answer); err != nil {
			return nil, fmt.Errorf("memory: scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("memory: iterate records: %w", err)
	}
	return records, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error { return s.db.Close() }
