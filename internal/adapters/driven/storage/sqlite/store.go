package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/structdb/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
)

// FileName is the catalog database file name inside the output directory.
const FileName = domain.CatalogFileName

// Store is the SQLite catalog of build runs and structure outcomes.
type Store struct {
	db   *sql.DB
	path string
}

// Ensure Store implements the interface.
var _ driven.StructureCatalog = (*Store)(nil)

// NewStore opens (creating if needed) the catalog in dataDir.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("%w: empty catalog directory", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, FileName)

	// WAL mode for concurrent readers; pragmas in the DSN apply to every pooled connection.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Runs ====================

// SaveRun stores or updates a build run.
func (s *Store) SaveRun(ctx context.Context, run domain.BuildRun) error {
	var finishedAt sql.NullTime
	if !run.FinishedAt.IsZero() {
		finishedAt = sql.NullTime{Time: run.FinishedAt.UTC(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, output_path, max_length, overwrite,
			discovered, skipped, succeeded, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			discovered = excluded.discovered,
			skipped = excluded.skipped,
			succeeded = excluded.succeeded,
			failed = excluded.failed
	`, run.ID, run.StartedAt.UTC(), finishedAt, run.OutputPath, run.MaxLength, run.Overwrite,
		run.Discovered, run.Skipped, run.Succeeded, run.Failed)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// GetRun retrieves a build run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*domain.BuildRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, output_path, max_length, overwrite,
			discovered, skipped, succeeded, failed
		FROM runs WHERE id = ?
	`, id)

	var run domain.BuildRun
	var finishedAt sql.NullTime
	if err := row.Scan(&run.ID, &run.StartedAt, &finishedAt, &run.OutputPath, &run.MaxLength,
		&run.Overwrite, &run.Discovered, &run.Skipped, &run.Succeeded, &run.Failed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}
	return &run, nil
}

// ==================== Structures ====================

// SaveStructures stores or updates structure records in one transaction.
func (s *Store) SaveStructures(ctx context.Context, records []domain.StructureRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO structures (id, path, run_id, outcome, reason, residues, atoms, sequence, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			path = excluded.path,
			run_id = excluded.run_id,
			outcome = excluded.outcome,
			reason = excluded.reason,
			residues = excluded.residues,
			atoms = excluded.atoms,
			sequence = excluded.sequence,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		updatedAt := r.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.Path, r.RunID, string(r.Status.Outcome), r.Status.Reason,
			r.Residues, r.Atoms, r.Sequence, updatedAt.UTC()); err != nil {
			return fmt.Errorf("saving structure %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetStructure retrieves the latest record for a structure id.
func (s *Store) GetStructure(ctx context.Context, id string) (*domain.StructureRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, path, run_id, outcome, reason, residues, atoms, sequence, updated_at
		FROM structures WHERE id = ?
	`, id)

	r, err := scanStructure(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return r, err
}

// ListStructures returns records with the given outcome, sorted by id.
// An empty outcome lists every record.
func (s *Store) ListStructures(ctx context.Context, outcome domain.Outcome) ([]domain.StructureRecord, error) {
	query := `
		SELECT id, path, run_id, outcome, reason, residues, atoms, sequence, updated_at
		FROM structures`
	var args []any
	if outcome != "" {
		query += " WHERE outcome = ?"
		args = append(args, string(outcome))
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying structures: %w", err)
	}
	defer rows.Close()

	var records []domain.StructureRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		r, err := scanStructure(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating structures: %w", err)
	}
	return records, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanStructure(row scanner) (*domain.StructureRecord, error) {
	var r domain.StructureRecord
	var outcome, reason string
	if err := row.Scan(&r.ID, &r.Path, &r.RunID, &outcome, &reason,
		&r.Residues, &r.Atoms, &r.Sequence, &r.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning structure: %w", err)
	}
	r.Status = domain.ProcessingStatus{Outcome: domain.Outcome(outcome), Reason: reason}
	return &r, nil
}
