package store

import "time"

// FileRecord is the ledger row for one processed file.
type FileRecord struct {
	ID          int64
	Path        string
	Kind        string
	Flow        string
	State       string
	Error       string
	Cards       int
	Skipped     int
	ProcessedAt time.Time
}

// Summary aggregates the ledger for reporting.
type Summary struct {
	Files   int
	Failed  int
	Cards   int
	Skipped int
}
