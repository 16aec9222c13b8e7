/*
run.go - Payroll run orchestration

PURPOSE:
  Drives one payroll run end to end for a selected Mode. The Runner is the
  explicit run context: configuration, invoice view, gateway, sink, logger
  and clock are all passed in, nothing is read from globals.

RUN SEQUENCE:
  1. Reconcile invoices against the roster (abort on any missing tutor)
  2. Select payable tutors: roster order, excluded identities removed
  3. Transfer modes only: resolve every payout destination (abort on any
     unresolved account)
  4. Compute every payout (abort on malformed amounts)
  5. Transfer modes only: transfer each positive take-home, recording
     failures and continuing
  6. Document modes only: hand the ledger rows to the sink

  Steps 1-4 complete before any money moves, so a run that aborts never
  leaves a partial set of transfers behind because of bad input.

MODES:
  report_only       Steps 1, 2, 4. Result.Total is what to fund.
  document_only     Steps 1, 2, 4, 6.
  pay_and_document  All steps.

FAILURE SEMANTICS:
  - A rejected transfer is recorded in Result.Failures (ordered, duplicates
    allowed) and the run continues with the next tutor.
  - A gateway transport error ends the run with an error.
  - Zero or negative take-home is never transferred but is still documented.

SEE ALSO:
  - reconcile.go: Step 1
  - calculator.go: Step 4
  - document/writer.go: File sink for step 6
*/
package payroll

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// RUN METADATA AND RESULT
// =============================================================================

// RunMeta identifies one run. Sinks use it to name their output.
type RunMeta struct {
	RunID      string
	Mode       Mode
	PeriodName string
	StartedAt  time.Time
}

type RunResult struct {
	RunMeta

	Payouts []PayoutResult
	Rows    []LedgerRow
	Total   decimal.Decimal

	// Failures lists tutors whose transfer was rejected, in run order.
	Failures []Tutor

	// LedgerPath is empty unless the mode documents.
	LedgerPath string
}

// =============================================================================
// RUNNER
// =============================================================================

type Runner struct {
	Config   *Config
	Invoices InvoiceLedger
	Gateway  TransferGateway
	Sink     LedgerSink
	Logger   *log.Logger

	// Now defaults to time.Now.
	Now func() time.Time

	// OnTutor, if set, is called as each payable tutor is handled.
	OnTutor func(Tutor)
}

func NewRunner(cfg *Config, invoices InvoiceLedger) *Runner {
	return &Runner{
		Config:   cfg,
		Invoices: invoices,
		Logger:   log.New(io.Discard, "", 0),
		Now:      time.Now,
	}
}

// Run executes the pipeline for mode. On error no ledger is written.
func (r *Runner) Run(ctx context.Context, mode Mode) (*RunResult, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if mode.Transfers() && r.Gateway == nil {
		return nil, ErrGatewayRequired
	}
	if mode.Documents() && r.Sink == nil {
		return nil, ErrSinkRequired
	}

	logger := r.logger()
	now := r.Now
	if now == nil {
		now = time.Now
	}
	result := &RunResult{
		RunMeta: RunMeta{
			RunID:      uuid.NewString(),
			Mode:       mode,
			PeriodName: r.Config.PeriodName,
			StartedAt:  now(),
		},
		Total: decimal.Zero,
	}
	logger.Printf("Action: %s (run %s, period %s)", mode, result.RunID, result.PeriodName)

	if err := Reconcile(ctx, r.Invoices, r.Config); err != nil {
		logger.Printf("Reconciliation failed: %v", err)
		return nil, err
	}

	payable := r.Config.PayableTutors()

	var handles map[string]string
	if mode.Transfers() {
		var err error
		handles, err = r.resolveDestinations(ctx, payable)
		if err != nil {
			logger.Printf("Destination check failed: %v", err)
			return nil, err
		}
	}

	calc := NewCalculator(r.Invoices, r.Config.ServiceFee, logger)
	payouts := make([]PayoutResult, 0, len(payable))
	for _, tutor := range payable {
		if r.OnTutor != nil {
			r.OnTutor(tutor)
		}
		logger.Printf("Handling tutor %s @%s", tutor.Name, tutor.ID)
		payout, err := calc.Compute(ctx, tutor)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, payout)
	}

	for i := range payouts {
		payout := &payouts[i]
		if mode.Transfers() && payout.TakeHome.IsPositive() {
			outcome, err := r.Gateway.AttemptTransfer(ctx, handles[payout.Tutor.ID], payout.TakeHome)
			if err != nil {
				return nil, fmt.Errorf("transfer to %s: %w", payout.Tutor.ID, err)
			}
			payout.Transfer = &outcome
			if outcome.Success {
				logger.Printf("Transferred %s to @%s: %s", payout.TakeHome.StringFixed(CentPlaces), payout.Tutor.ID, outcome.Response)
			} else {
				logger.Printf("Transfer to @%s failed: %s", payout.Tutor.ID, outcome.Response)
				result.Failures = append(result.Failures, payout.Tutor)
			}
		}
		result.Rows = append(result.Rows, newLedgerRow(*payout, r.Config.ServiceFee))
		result.Total = result.Total.Add(payout.TakeHome)
	}
	result.Payouts = payouts

	if mode.Documents() {
		path, err := r.Sink.WriteLedger(ctx, result.RunMeta, result.Rows)
		if err != nil {
			return nil, fmt.Errorf("write ledger: %w", err)
		}
		result.LedgerPath = path
		logger.Printf("Ledger written to %s", path)
	}

	logger.Printf("Total: %s", result.Total.StringFixed(CentPlaces))
	return result, nil
}

// resolveDestinations maps tutor IDs to gateway handles, failing with every
// unresolved identity at once.
func (r *Runner) resolveDestinations(ctx context.Context, tutors []Tutor) (map[string]string, error) {
	handles := make(map[string]string, len(tutors))
	var unresolved []string
	for _, t := range tutors {
		if t.PayoutDestination == "" {
			unresolved = append(unresolved, t.ID)
			continue
		}
		handle, found, err := r.Gateway.ResolveDestination(ctx, t.PayoutDestination)
		if err != nil {
			return nil, fmt.Errorf("resolve destination for %s: %w", t.ID, err)
		}
		if !found {
			unresolved = append(unresolved, t.ID)
			continue
		}
		handles[t.ID] = handle
	}
	if len(unresolved) > 0 {
		return nil, &UnresolvedDestinationsError{Identities: unresolved}
	}
	return handles, nil
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return r.Logger
}
