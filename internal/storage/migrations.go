package storage

import (
	"database/sql"
	"fmt"
)

// Migration is one versioned schema change.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

func migrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_workspace_stats",
			SQL: `
				CREATE TABLE IF NOT EXISTS workspace_stats (
					key TEXT PRIMARY KEY,
					label TEXT NOT NULL DEFAULT '',
					total_ns INTEGER NOT NULL DEFAULT 0,
					last_save_at DATETIME
				);
			`,
		},
		{
			Version: 2,
			Name:    "create_run_history",
			SQL: `
				CREATE TABLE IF NOT EXISTS run_history (
					id TEXT PRIMARY KEY,
					key TEXT NOT NULL,
					started_at DATETIME NOT NULL,
					ended_at DATETIME NOT NULL,
					duration_ns INTEGER NOT NULL,
					reason TEXT NOT NULL DEFAULT ''
				);

				CREATE INDEX IF NOT EXISTS idx_run_history_key ON run_history (key);
				CREATE INDEX IF NOT EXISTS idx_run_history_ended_at ON run_history (ended_at);
			`,
		},
	}
}

func runMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	var current int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, migration := range migrations() {
		if migration.Version <= current {
			continue
		}
		if err := applyMigration(db, migration); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}
	}
	return nil
}

func applyMigration(db *sql.DB, migration Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(migration.SQL); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		migration.Version, migration.Name); err != nil {
		return err
	}
	return tx.Commit()
}
