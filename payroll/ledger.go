/*
ledger.go - Read-only view over the imported invoice export

PURPOSE:
  The InvoiceLedger is the only way the engine sees invoice data. It is
  loaded once per run and never written to during the run. Lookups are
  by normalized tutor identity.

CRITICAL INVARIANTS:
  1. READ-ONLY: The engine never modifies invoice rows.
  2. NORMALIZED: TutorID on every row is already normalized, so lookups
     compare identities exactly.
  3. ORDERED: RowsFor returns rows in export order.

IMPLEMENTATIONS:
  - payroll/store/memory.go: In-memory, used by the CLI and tests
  - store/sqlite/sqlite.go: SQLite-backed, used by the preview server

SEE ALSO:
  - ingestion/invoices.go: Builds InvoiceRows from the CSV export
  - reconcile.go: Uses Identities()
  - calculator.go: Uses RowsFor()
*/
package payroll

import "context"

// =============================================================================
// INVOICE LEDGER - Read-only invoice view
// =============================================================================

type InvoiceLedger interface {
	// Identities returns every distinct tutor identity referenced by an
	// invoice, canceled or not.
	Identities(ctx context.Context) ([]string, error)

	// RowsFor returns all invoice rows attributed to the tutor, in export order.
	RowsFor(ctx context.Context, tutorID string) ([]InvoiceRow, error)
}

// =============================================================================
// LEDGER SINK - Destination for documentation rows
// =============================================================================

// LedgerSink persists the documentation ledger of a run and returns where
// it was written. document.Writer is the file implementation.
type LedgerSink interface {
	WriteLedger(ctx context.Context, meta RunMeta, rows []LedgerRow) (string, error)
}
