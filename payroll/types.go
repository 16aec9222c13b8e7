/*
Package payroll provides the tutor payroll reconciliation and payout engine.

PURPOSE:
  This package contains the domain types and algorithms for one monthly
  payroll run: matching invoice rows to tutors, refusing to run while the
  roster is incomplete, computing each tutor's take-home pay, and driving
  the selected run mode (report, document, or pay and document).

KEY CONCEPTS IN THIS FILE (types.go):
  - Tutor: A roster entry with revenue share and payout destination
  - InvoiceRow: One imported invoice, attributed to a tutor identity
  - Config: The validated payroll configuration for a run
  - PayoutResult: What one tutor earned and what happened to the transfer
  - LedgerRow: One line of the documentation ledger written per run

DESIGN PRINCIPLES:
  1. Immutability: Tutors and invoice rows are values, never mutated
  2. Precision: Uses decimal.Decimal for all money and fractions
  3. Determinism: Roster order drives iteration, so ledgers are reproducible
  4. Fail loudly: Preconditions enumerate every offending identity

USAGE:
  runner := payroll.NewRunner(cfg, store.NewMemory(rows))
  result, err := runner.Run(ctx, payroll.ModeReportOnly)
  fmt.Println(result.Total)

SEE ALSO:
  - identity.go: Identity normalization
  - reconcile.go: Roster/invoice reconciliation gate
  - calculator.go: Take-home computation
  - run.go: Run orchestration
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// TUTOR - Roster entry
// =============================================================================

// Tutor is the payroll-relevant view of one roster entry.
type Tutor struct {
	ID                string
	Name              string
	School            string
	Cut               decimal.Decimal
	PayoutDestination string
}

// =============================================================================
// INVOICE ROW - Imported invoice export line
// =============================================================================

type InvoiceStatus string

const (
	StatusCompleted InvoiceStatus = "Completed"
	StatusCanceled  InvoiceStatus = "Canceled"
)

// InvoiceRow is one invoice from the export. RequestedAmount stays in its
// display form ("$40.00"); it is parsed when revenue is computed.
type InvoiceRow struct {
	Line            int
	Title           string
	TutorID         string
	Status          InvoiceStatus
	RequestedAmount string
}

func (r InvoiceRow) IsCanceled() bool { return r.Status == StatusCanceled }

// =============================================================================
// CONFIG - Validated payroll configuration
// =============================================================================

// Config is the typed form of the payroll payload. Build it with
// factory.LoadPayload, which normalizes every identity.
type Config struct {
	InvoicePath string
	DocumentDir string
	PeriodName  string
	ServiceFee  decimal.Decimal
	Tutors      []Tutor
	Excluded    map[string]struct{}
}

// IsExcluded reports whether id is skipped for payment and reconciliation.
func (c *Config) IsExcluded(id string) bool {
	_, ok := c.Excluded[id]
	return ok
}

// RosterIDs returns the identities of every tutor in roster order.
func (c *Config) RosterIDs() []string {
	ids := make([]string, len(c.Tutors))
	for i, t := range c.Tutors {
		ids[i] = t.ID
	}
	return ids
}

// ExcludedIDs returns the exclusion set as a slice.
func (c *Config) ExcludedIDs() []string {
	ids := make([]string, 0, len(c.Excluded))
	for id := range c.Excluded {
		ids = append(ids, id)
	}
	return ids
}

// PayableTutors returns roster tutors that are not excluded, in roster order.
func (c *Config) PayableTutors() []Tutor {
	var out []Tutor
	for _, t := range c.Tutors {
		if c.IsExcluded(t.ID) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// =============================================================================
// PAYOUT RESULT - Derived per tutor per run
// =============================================================================

// TransferOutcome is what the transfer gateway reported for one transfer.
// Response is the provider's opaque reply (transfer ID or error message).
type TransferOutcome struct {
	Success  bool
	Response string
}

type PayoutResult struct {
	Tutor        Tutor
	GrossRevenue decimal.Decimal
	TakeHome     decimal.Decimal

	// Transfer is nil unless a transfer was attempted.
	Transfer *TransferOutcome
}

// Failed reports whether a transfer was attempted and did not succeed.
func (p PayoutResult) Failed() bool {
	return p.Transfer != nil && !p.Transfer.Success
}

// =============================================================================
// LEDGER ROW - Documentation output
// =============================================================================

// LedgerColumns is the header of the documentation ledger file.
var LedgerColumns = []string{
	"Name", "School", "Revenue", "Cut", "Service Fee", "Takehome", "ID", "Payout Destination",
}

type LedgerRow struct {
	Name              string
	School            string
	GrossRevenue      decimal.Decimal
	Cut               decimal.Decimal
	ServiceFee        decimal.Decimal
	TakeHome          decimal.Decimal
	ID                string
	PayoutDestination string
}

// Record renders the row in LedgerColumns order. Money is fixed to cents.
func (r LedgerRow) Record() []string {
	return []string{
		r.Name,
		r.School,
		r.GrossRevenue.StringFixed(2),
		r.Cut.String(),
		r.ServiceFee.String(),
		r.TakeHome.StringFixed(2),
		r.ID,
		r.PayoutDestination,
	}
}

func newLedgerRow(p PayoutResult, serviceFee decimal.Decimal) LedgerRow {
	return LedgerRow{
		Name:              p.Tutor.Name,
		School:            p.Tutor.School,
		GrossRevenue:      p.GrossRevenue,
		Cut:               p.Tutor.Cut,
		ServiceFee:        serviceFee,
		TakeHome:          p.TakeHome,
		ID:                p.Tutor.ID,
		PayoutDestination: p.Tutor.PayoutDestination,
	}
}
