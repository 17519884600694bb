// Package sqlite serves the warehouse read models from a local SQLite
// snapshot file.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS epic_schedule (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		epic_number        TEXT NOT NULL,
		epic_summary       TEXT,
		epic_team          TEXT,
		epic_product       TEXT,
		epic_status        TEXT,
		planned_start      TEXT,
		planned_due        TEXT,
		task_start_actual  TEXT,
		task_finish_actual TEXT,
		completion_pct     REAL,
		progress_indicator TEXT,
		record_type        TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_epic_schedule_window ON epic_schedule (planned_start, planned_due)`,
	`CREATE TABLE IF NOT EXISTS subtask_schedule (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		task_number    TEXT NOT NULL,
		task_summary   TEXT,
		epic_number    TEXT,
		task_team      TEXT,
		task_status    TEXT,
		task_type      TEXT,
		task_stage     TEXT,
		planned_start  TEXT,
		planned_finish TEXT,
		actual_start   TEXT,
		actual_finish  TEXT,
		completion_pct REAL,
		created_at     TEXT,
		updated_at     TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS maintenance_tickets (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		ticket_number   TEXT NOT NULL,
		summary         TEXT,
		team            TEXT,
		status          TEXT,
		product         TEXT,
		created_at      TEXT,
		updated_at      TEXT,
		resolution_date TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_maintenance_tickets_created ON maintenance_tickets (created_at)`,
}

// OpenDB opens the snapshot at path, creating the file and schema when
// missing.
func OpenDB(path string) (*sql.DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}

	if path == MemoryPath {
		// Every connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	for i, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("schema statement %d: %w", i, err)
		}
	}

	return db, nil
}
