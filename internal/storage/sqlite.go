package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"worktick/internal/core/model"
)

// DB is the SQLite-backed store for workspace statistics and run history.
type DB struct {
	db *sql.DB
}

// Open opens the statistics database at path, creating it if needed, and
// applies pending migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite serializes writes; keep the pool small.
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

// Close closes the underlying database.
func (store *DB) Close() error {
	return store.db.Close()
}

// Get returns the persisted record for a workspace key. A workspace that was
// never saved yields the zero record, not an error.
func (store *DB) Get(key string) (model.WorkspaceStats, error) {
	row := store.db.QueryRow(
		"SELECT key, label, total_ns, last_save_at FROM workspace_stats WHERE key = ?", key)

	var stats model.WorkspaceStats
	var totalNS int64
	var lastSave sql.NullTime
	err := row.Scan(&stats.Key, &stats.Label, &totalNS, &lastSave)
	if errors.Is(err, sql.ErrNoRows) {
		return model.WorkspaceStats{}, nil
	}
	if err != nil {
		return model.WorkspaceStats{}, fmt.Errorf("query workspace stats: %w", err)
	}

	stats.TotalTime = time.Duration(totalNS)
	if lastSave.Valid {
		stats.LastSaveAt = lastSave.Time
	}
	return stats, nil
}

// Put writes the record for a workspace key, replacing any previous one.
func (store *DB) Put(stats model.WorkspaceStats) error {
	_, err := store.db.Exec(
		`INSERT OR REPLACE INTO workspace_stats (key, label, total_ns, last_save_at)
		 VALUES (?, ?, ?, ?)`,
		stats.Key, stats.Label, int64(stats.TotalTime), stats.LastSaveAt)
	if err != nil {
		return fmt.Errorf("write workspace stats: %w", err)
	}
	return nil
}

// List returns all persisted workspace records, largest total first.
func (store *DB) List() ([]model.WorkspaceStats, error) {
	rows, err := store.db.Query(
		"SELECT key, label, total_ns, last_save_at FROM workspace_stats ORDER BY total_ns DESC, key")
	if err != nil {
		return nil, fmt.Errorf("query workspace stats: %w", err)
	}
	defer rows.Close()

	var records []model.WorkspaceStats
	for rows.Next() {
		var stats model.WorkspaceStats
		var totalNS int64
		var lastSave sql.NullTime
		if err := rows.Scan(&stats.Key, &stats.Label, &totalNS, &lastSave); err != nil {
			return nil, fmt.Errorf("scan workspace stats: %w", err)
		}
		stats.TotalTime = time.Duration(totalNS)
		if lastSave.Valid {
			stats.LastSaveAt = lastSave.Time
		}
		records = append(records, stats)
	}
	return records, rows.Err()
}

// RecordRun appends one completed tracking run to history. A missing ID is
// assigned.
func (store *DB) RecordRun(record model.RunRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	_, err := store.db.Exec(
		`INSERT INTO run_history (id, key, started_at, ended_at, duration_ns, reason)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.Key, record.StartedAt, record.EndedAt, int64(record.Duration), record.Reason)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// History returns the runs for a workspace that ended at or after since,
// oldest first.
func (store *DB) History(key string, since time.Time) ([]model.RunRecord, error) {
	rows, err := store.db.Query(
		`SELECT id, key, started_at, ended_at, duration_ns, reason
		 FROM run_history WHERE key = ? AND ended_at >= ? ORDER BY started_at`,
		key, since)
	if err != nil {
		return nil, fmt.Errorf("query run history: %w", err)
	}
	defer rows.Close()

	var records []model.RunRecord
	for rows.Next() {
		var record model.RunRecord
		var durationNS int64
		if err := rows.Scan(&record.ID, &record.Key, &record.StartedAt, &record.EndedAt, &durationNS, &record.Reason); err != nil {
			return nil, fmt.Errorf("scan run history: %w", err)
		}
		record.Duration = time.Duration(durationNS)
		records = append(records, record)
	}
	return records, rows.Err()
}

// PruneHistory deletes runs that ended before the cutoff and reports how many
// rows were removed.
func (store *DB) PruneHistory(before time.Time) (int64, error) {
	result, err := store.db.Exec("DELETE FROM run_history WHERE ended_at < ?", before)
	if err != nil {
		return 0, fmt.Errorf("prune run history: %w", err)
	}
	return result.RowsAffected()
}
