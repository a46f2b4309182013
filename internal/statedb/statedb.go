package statedb

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"

	"ewms/internal/config"
	"ewms/internal/ward"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped on any schema change. Databases at a different
// version are rejected on open; see ErrSchemaMismatch.
const schemaVersion = 1

const dbFileName = "ward.db"

// DB stores the ward bed snapshot and the sync outbox in SQLite.
type DB struct {
	db   *sql.DB
	path string
}

// Open connects to the ward database under the configured data directory,
// applying pragmas and creating the schema when the database is new.
func Open(cfg *config.Config) (*DB, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.DataDir, dbFileName))
}

// OpenPath opens or creates a ward database at an explicit path.
func OpenPath(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &DB{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Path returns the database file location.
func (d *DB) Path() string {
	return d.path
}

func (d *DB) initSchema(ctx context.Context) error {
	var tableExists int
	err := d.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return d.createSchema(ctx)
	}

	var version int
	err = d.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (move %s aside before restarting)",
			ErrSchemaMismatch, version, schemaVersion, d.path)
	}
	return nil
}

func (d *DB) createSchema(ctx context.Context) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Load restores the bed collection. It returns (nil, nil) when no snapshot
// has ever been saved, in which case the caller initializes a fresh ward.
func (d *DB) Load(ctx context.Context) ([]ward.Bed, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT bed_id, status, patient_name, patient_mrn, diagnosis, visit_date, visit_time, admitted_at_ms
         FROM beds ORDER BY bed_id`)
	if err != nil {
		return nil, persistenceErr("load ward state", err)
	}
	defer rows.Close()

	var beds []ward.Bed
	for rows.Next() {
		var (
			bedID      int
			status     string
			name       sql.NullString
			mrn        sql.NullString
			diagnosis  sql.NullString
			visitDate  sql.NullString
			visitTime  sql.NullString
			admittedMS sql.NullInt64
		)
		if err := rows.Scan(&bedID, &status, &name, &mrn, &diagnosis, &visitDate, &visitTime, &admittedMS); err != nil {
			return nil, persistenceErr("scan bed row", err)
		}
		bed := ward.Bed{ID: bedID, Status: ward.Status(status)}
		if bed.Status == ward.StatusOccupied {
			bed.Patient = &ward.Patient{
				Name:             name.String,
				MRN:              mrn.String,
				Diagnosis:        diagnosis.String,
				VisitDate:        visitDate.String,
				VisitTime:        visitTime.String,
				AdmittedAtMillis: admittedMS.Int64,
			}
		}
		beds = append(beds, bed)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr("iterate bed rows", err)
	}
	if len(beds) == 0 {
		return nil, nil
	}
	return beds, nil
}

// Save replaces the persisted snapshot wholesale in one transaction. There
// is no incremental diffing; the collection is small and the write is cheap.
func (d *DB) Save(ctx context.Context, beds []ward.Bed) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return persistenceErr("begin save tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM beds`); err != nil {
		return persistenceErr("clear bed snapshot", err)
	}
	for _, bed := range beds {
		var (
			name       any
			mrn        any
			diagnosis  any
			visitDate  any
			visitTime  any
			admittedMS any
		)
		if bed.Patient != nil {
			name = bed.Patient.Name
			mrn = bed.Patient.MRN
			diagnosis = bed.Patient.Diagnosis
			visitDate = bed.Patient.VisitDate
			visitTime = bed.Patient.VisitTime
			admittedMS = bed.Patient.AdmittedAtMillis
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO beds (bed_id, status, patient_name, patient_mrn, diagnosis, visit_date, visit_time, admitted_at_ms)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			bed.ID, string(bed.Status), name, mrn, diagnosis, visitDate, visitTime, admittedMS,
		); err != nil {
			return persistenceErr(fmt.Sprintf("insert bed %d", bed.ID), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return persistenceErr("commit save tx", err)
	}
	return nil
}

// Ping verifies the database connection, used by health reporting.
func (d *DB) Ping(ctx context.Context) error {
	if d == nil || d.db == nil {
		return errors.New("state database connection unavailable")
	}
	return d.db.PingContext(ctx)
}
