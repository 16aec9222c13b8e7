/*
Package sqlite provides a SQLite-backed implementation of the invoice view.

PURPOSE:
  Implements payroll.InvoiceLedger using SQLite. The preview server imports
  the invoice export into this store and answers identity lookups with
  indexed queries instead of scanning the CSV for every tutor.

INTERFACES IMPLEMENTED:
  payroll.InvoiceLedger: Identities, RowsFor

READ-ONLY DURING A RUN:
  Import() replaces the whole invoice set atomically. The engine itself
  only reads. A run never observes a half-imported export because Import
  runs in one transaction.

KEY TABLES:
  invoice_imports: One row per import (source path, row count, time)
  invoices:        Imported invoice rows, tagged with their import

INDEXES:
  - idx_invoices_tutor: RowsFor lookups (hot path)

CONCURRENCY:
  Uses sync.RWMutex and a single connection. With ":memory:" every pooled
  connection would otherwise see its own empty database.

USAGE:
  store, err := sqlite.New(":memory:")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  _, err = store.Import(ctx, "invoices.csv", rows)
  result, err := payroll.NewRunner(cfg, store).Run(ctx, payroll.ModeReportOnly)

SEE ALSO:
  - payroll/ledger.go: Interface definition
  - payroll/store/memory.go: In-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/tutor-payroll/payroll"
)

// Store implements payroll.InvoiceLedger using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// ImportRecord describes one import of the invoice export.
type ImportRecord struct {
	ID         string
	Source     string
	RowCount   int
	ImportedAt time.Time
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS invoice_imports (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		imported_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS invoices (
		import_id TEXT NOT NULL REFERENCES invoice_imports(id),
		line INTEGER NOT NULL,
		title TEXT NOT NULL,
		tutor_id TEXT NOT NULL,
		status TEXT NOT NULL,
		requested_amount TEXT NOT NULL,
		PRIMARY KEY (import_id, line)
	);

	CREATE INDEX IF NOT EXISTS idx_invoices_tutor
		ON invoices(tutor_id, line);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// IMPORT
// =============================================================================

// Import replaces all stored invoices with rows.
func (s *Store) Import(ctx context.Context, source string, rows []payroll.InvoiceRow) (ImportRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := ImportRecord{
		ID:         uuid.NewString(),
		Source:     source,
		RowCount:   len(rows),
		ImportedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportRecord{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM invoices`); err != nil {
		return ImportRecord{}, fmt.Errorf("clear invoices: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_imports`); err != nil {
		return ImportRecord{}, fmt.Errorf("clear imports: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO invoice_imports (id, source, row_count, imported_at) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Source, rec.RowCount, rec.ImportedAt.Format(time.RFC3339),
	); err != nil {
		return ImportRecord{}, fmt.Errorf("insert import: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO invoices (import_id, line, title, tutor_id, status, requested_amount)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return ImportRecord{}, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		line := row.Line
		if line == 0 {
			line = i + 1
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, line, row.Title, row.TutorID, string(row.Status), row.RequestedAmount); err != nil {
			return ImportRecord{}, fmt.Errorf("insert invoice %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportRecord{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

// LastImport returns the current import, or false if nothing was imported.
func (s *Store) LastImport(ctx context.Context) (ImportRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec ImportRecord
	var importedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, row_count, imported_at FROM invoice_imports LIMIT 1`,
	).Scan(&rec.ID, &rec.Source, &rec.RowCount, &importedAt)
	if err == sql.ErrNoRows {
		return ImportRecord{}, false, nil
	}
	if err != nil {
		return ImportRecord{}, false, fmt.Errorf("query import: %w", err)
	}
	rec.ImportedAt, _ = time.Parse(time.RFC3339, importedAt)
	return rec, true, nil
}

// =============================================================================
// INVOICE LEDGER (payroll.InvoiceLedger interface)
// =============================================================================

// Identities returns distinct identities in first-seen order.
func (s *Store) Identities(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT tutor_id FROM invoices
		GROUP BY tutor_id
		ORDER BY MIN(line)
	`)
	if err != nil {
		return nil, fmt.Errorf("query identities: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) RowsFor(ctx context.Context, tutorID string) ([]payroll.InvoiceRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT line, title, tutor_id, status, requested_amount
		FROM invoices
		WHERE tutor_id = ?
		ORDER BY line
	`, tutorID)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	var result []payroll.InvoiceRow
	for rows.Next() {
		var row payroll.InvoiceRow
		var status string
		if err := rows.Scan(&row.Line, &row.Title, &row.TutorID, &status, &row.RequestedAmount); err != nil {
			return nil, err
		}
		row.Status = payroll.InvoiceStatus(status)
		result = append(result, row)
	}
	return result, rows.Err()
}
