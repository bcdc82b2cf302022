package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface on a SQLite database, for
// deployments that prefer a single file over a directory tree. The
// database holds run records only; trace files still live under
// <dataDir>/runs/<jobID>/, so deleting a run removes that directory too.
type SQLiteStore struct {
	db      *sql.DB
	dataDir string
}

// schemaVersion is the latest schema version supported by the migrator.
const schemaVersion = 1

// OpenSQLite opens (or creates) the database at path and migrates the
// schema. dataDir is the base directory holding per-run trace files.
// Callers own Close().
func OpenSQLite(path, dataDir string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, dataDir: dataDir}, nil
}

// migrate ensures the schema exists and is upgraded to schemaVersion.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`)
	if err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	err = db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current)
	if err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}

	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if current < 1 {
		_, err = tx.Exec(`CREATE TABLE runs (
			job_id         TEXT PRIMARY KEY,
			problem        TEXT NOT NULL,
			size           INTEGER NOT NULL,
			steps          INTEGER NOT NULL,
			seed           INTEGER NOT NULL,
			schedule       TEXT NOT NULL DEFAULT '',
			temp           REAL NOT NULL DEFAULT 0,
			initial_energy REAL NOT NULL,
			final_energy   REAL NOT NULL,
			final_state    TEXT NOT NULL,
			completed_at   TIMESTAMP NOT NULL
		);`)
		if err != nil {
			return fmt.Errorf("migrate: create runs: %w", err)
		}
	}

	if _, err = tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?);`, schemaVersion); err != nil {
		return fmt.Errorf("migrate: record version: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit: %w", err)
	}
	return nil
}

// SaveRun inserts or replaces the record for the given run.
func (s *SQLiteStore) SaveRun(jobID string, record *RunRecord) error {
	if jobID == "" {
		return fmt.Errorf("jobID cannot be empty")
	}
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid run record: %w", err)
	}

	_, err := s.db.Exec(`INSERT OR REPLACE INTO runs
		(job_id, problem, size, steps, seed, schedule, temp, initial_energy, final_energy, final_state, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		jobID,
		record.Config.Problem,
		record.Config.Size,
		record.Config.Steps,
		record.Config.Seed,
		record.Config.Schedule,
		record.Config.Temp,
		record.InitialEnergy,
		record.FinalEnergy,
		record.FinalState,
		record.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run record: %w", err)
	}
	return nil
}

// LoadRun retrieves the record for the given run.
func (s *SQLiteStore) LoadRun(jobID string) (*RunRecord, error) {
	if jobID == "" {
		return nil, fmt.Errorf("jobID cannot be empty")
	}

	var record RunRecord
	var completedAt string
	record.JobID = jobID

	err := s.db.QueryRow(`SELECT problem, size, steps, seed, schedule, temp,
			initial_energy, final_energy, final_state, completed_at
		FROM runs WHERE job_id = ?`, jobID).Scan(
		&record.Config.Problem,
		&record.Config.Size,
		&record.Config.Steps,
		&record.Config.Seed,
		&record.Config.Schedule,
		&record.Config.Temp,
		&record.InitialEnergy,
		&record.FinalEnergy,
		&record.FinalState,
		&completedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{JobID: jobID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run record: %w", err)
	}

	record.Timestamp, err = time.Parse(time.RFC3339Nano, completedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse completion time: %w", err)
	}

	return &record, nil
}

// ListRuns returns metadata for all persisted runs, newest first.
func (s *SQLiteStore) ListRuns() ([]RunInfo, error) {
	rows, err := s.db.Query(`SELECT job_id, problem, size, steps, final_energy, completed_at
		FROM runs ORDER BY completed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var infos []RunInfo
	for rows.Next() {
		var info RunInfo
		var completedAt string
		if err := rows.Scan(&info.JobID, &info.Problem, &info.Size, &info.Steps, &info.FinalEnergy, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		if info.Timestamp, err = time.Parse(time.RFC3339Nano, completedAt); err != nil {
			return nil, fmt.Errorf("failed to parse completion time: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run rows: %w", err)
	}

	return infos, nil
}

// DeleteRun removes the record for the given run along with its on-disk
// artifacts (the trace file, where one was recorded).
func (s *SQLiteStore) DeleteRun(jobID string) error {
	if jobID == "" {
		return fmt.Errorf("jobID cannot be empty")
	}

	result, err := s.db.Exec(`DELETE FROM runs WHERE job_id = ?`, jobID)
	if err != nil {
		return fmt.Errorf("failed to delete run record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{JobID: jobID}
	}

	// Runs without a recorded trajectory have no run directory.
	runDir := filepath.Join(s.dataDir, "runs", jobID)
	if err := os.RemoveAll(runDir); err != nil {
		return fmt.Errorf("failed to remove run artifacts: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
