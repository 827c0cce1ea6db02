package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/valigence-labs/valigence-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/valigence-labs/valigence-cli/internal/core/domain"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driven"
)

// Store is the SQLite-backed history store. It records question/answer
// exchanges from the document chat and the outcomes of validation runs.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.HistoryStore = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.valigence/data/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".valigence", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
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
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
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
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveExchange records one question/answer turn.
func (s *Store) SaveExchange(ctx context.Context, exchange domain.Exchange) error {
	if exchange.AskedAt.IsZero() {
		exchange.AskedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exchanges (question, answer, asked_at)
		VALUES (?, ?, ?)
	`, exchange.Question, exchange.Answer, exchange.AskedAt)

	if err != nil {
		return fmt.Errorf("saving exchange: %w", err)
	}
	return nil
}

// RecentExchanges returns up to limit exchanges, newest first.
func (s *Store) RecentExchanges(ctx context.Context, limit int) ([]domain.Exchange, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidInput
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, answer, asked_at
		FROM exchanges
		ORDER BY asked_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []domain.Exchange //nolint:prealloc // size unknown from query
	for rows.Next() {
		var e domain.Exchange
		if err := rows.Scan(&e.ID, &e.Question, &e.Answer, &e.AskedAt); err != nil {
			return nil, fmt.Errorf("scanning exchange: %w", err)
		}
		exchanges = append(exchanges, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exchanges: %w", err)
	}

	return exchanges, nil
}

// SaveValidation records the outcome of one validation run.
func (s *Store) SaveValidation(ctx context.Context, report domain.ValidationReport) error {
	if report.RanAt.IsZero() {
		report.RanAt = time.Now().UTC()
	}

	requiredJSON, err := json.Marshal(report.RequiredRoles)
	if err != nil {
		return fmt.Errorf("marshalling required roles: %w", err)
	}
	foundJSON, err := json.Marshal(report.FoundRoles)
	if err != nil {
		return fmt.Errorf("marshalling found roles: %w", err)
	}
	missingJSON, err := json.Marshal(report.Comparison.MissingRoles)
	if err != nil {
		return fmt.Errorf("marshalling missing roles: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO validation_runs
			(document_id, required_roles, found_roles, missing_roles,
			 is_incomplete, chunk_count, indexed_count, skipped_count, reason, ran_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, report.DocumentID, string(requiredJSON), string(foundJSON), string(missingJSON),
		report.Comparison.IsIncomplete, report.Indexing.ChunkCount,
		report.Indexing.IndexedCount, report.Indexing.SkippedCount,
		report.Indexing.Reason, report.RanAt)

	if err != nil {
		return fmt.Errorf("saving validation run: %w", err)
	}
	return nil
}

// RecentValidations returns up to limit validation runs, newest first.
func (s *Store) RecentValidations(ctx context.Context, limit int) ([]domain.ValidationReport, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidInput
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, required_roles, found_roles, missing_roles,
		       is_incomplete, chunk_count, indexed_count, skipped_count, reason, ran_at
		FROM validation_runs
		ORDER BY ran_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying validation runs: %w", err)
	}
	defer rows.Close()

	var reports []domain.ValidationReport //nolint:prealloc // size unknown from query
	for rows.Next() {
		report, err := scanValidation(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating validation runs: %w", err)
	}

	return reports, nil
}

// Purge deletes all stored history.
func (s *Store) Purge(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM exchanges"); err != nil {
		return fmt.Errorf("purging exchanges: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM validation_runs"); err != nil {
		return fmt.Errorf("purging validation runs: %w", err)
	}
	return nil
}

// scanValidation scans a validation run from *sql.Rows.
func scanValidation(rows *sql.Rows) (*domain.ValidationReport, error) {
	var report domain.ValidationReport
	var requiredJSON, foundJSON, missingJSON string

	if err := rows.Scan(&report.DocumentID, &requiredJSON, &foundJSON, &missingJSON,
		&report.Comparison.IsIncomplete, &report.Indexing.ChunkCount,
		&report.Indexing.IndexedCount, &report.Indexing.SkippedCount,
		&report.Indexing.Reason, &report.RanAt); err != nil {
		return nil, fmt.Errorf("scanning validation run: %w", err)
	}
	report.Indexing.DocumentID = report.DocumentID

	if err := json.Unmarshal([]byte(requiredJSON), &report.RequiredRoles); err != nil {
		return nil, fmt.Errorf("unmarshalling required roles: %w", err)
	}
	if err := json.Unmarshal([]byte(foundJSON), &report.FoundRoles); err != nil {
		return nil, fmt.Errorf("unmarshalling found roles: %w", err)
	}
	if err := json.Unmarshal([]byte(missingJSON), &report.Comparison.MissingRoles); err != nil {
		return nil, fmt.Errorf("unmarshalling missing roles: %w", err)
	}

	return &report, nil
}
