package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the run ledger: one row per processed file. Reporting only;
// the archive folder remains the marker for what has been processed.
type Store interface {
	// RecordFile appends a row for a processed file and returns its ID.
	RecordFile(f FileRecord) (int64, error)
	// ListRecent returns the newest n rows, most recent first.
	ListRecent(n int) ([]FileRecord, error)
	// Summarize aggregates all rows.
	Summarize() (Summary, error)
	// Close closes the underlying database.
	Close() error
}

// SQLiteStore implements Store backed by SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path and initializes the schema.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Init(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) RecordFile(f FileRecord) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO files (path, kind, flow, state, error, cards, skipped) VALUES (?, ?, ?, ?, ?, ?, ?)",
		f.Path, f.Kind, f.Flow, f.State, f.Error, f.Cards, f.Skipped,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) ListRecent(n int) ([]FileRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, path, kind, flow, state, error, cards, skipped, processed_at
		FROM files
		ORDER BY processed_at DESC, id DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []FileRecord
	for rows.Next() {
		var r FileRecord
		err := rows.Scan(
			&r.ID, &r.Path, &r.Kind, &r.Flow, &r.State, &r.Error,
			&r.Cards, &r.Skipped, &r.ProcessedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Summarize() (Summary, error) {
	var sum Summary
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN state = 'failed' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(cards), 0),
		       COALESCE(SUM(skipped), 0)
		FROM files
	`).Scan(&sum.Files, &sum.Failed, &sum.Cards, &sum.Skipped)
	return sum, err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
