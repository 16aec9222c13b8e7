/*
handlers.go - HTTP handlers for the payroll preview API

PURPOSE:
  Lets the office check a period before anyone runs the CLI: who is on
  the roster, what each tutor will take home, and what the ledger file
  will contain. The API never transfers money and never writes ledgers.

ENDPOINTS:
  GET /api/health   Server status and last invoice import
  GET /api/tutors   Roster, with exclusion flags
  GET /api/report   report_only run: payouts and total to fund
  GET /api/ledger   document_only preview; ?format=csv returns the file body

REQUEST FLOW:
  1. Load the payload (picks up edits without restarting)
  2. Import the invoice export into the SQLite store
  3. Run the engine in a non-transferring mode
  4. Serialize response

ERROR HANDLING:
  - 409: Reconciliation failed; body lists the missing identities
  - 422: Payload or invoice export is invalid
  - 500: Anything else

SEE ALSO:
  - dto.go: Response types
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"github.com/warp/tutor-payroll/document"
	"github.com/warp/tutor-payroll/factory"
	"github.com/warp/tutor-payroll/ingestion"
	"github.com/warp/tutor-payroll/payroll"
	"github.com/warp/tutor-payroll/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store       *sqlite.Store
	PayloadPath string

	// runs are serialized; the engine is single-threaded by contract.
	mu sync.Mutex
}

// NewHandler creates a new handler reading the payload at payloadPath.
func NewHandler(store *sqlite.Store, payloadPath string) *Handler {
	return &Handler{Store: store, PayloadPath: payloadPath}
}

// previewSink captures ledger rows instead of writing them.
type previewSink struct {
	meta payroll.RunMeta
	rows []payroll.LedgerRow
}

func (s *previewSink) WriteLedger(_ context.Context, meta payroll.RunMeta, rows []payroll.LedgerRow) (string, error) {
	s.meta = meta
	s.rows = rows
	return "", nil
}

// load reads the payload and refreshes the invoice store.
func (h *Handler) load(ctx context.Context) (*payroll.Config, error) {
	cfg, err := factory.LoadPayload(h.PayloadPath)
	if err != nil {
		return nil, err
	}
	rows, err := ingestion.LoadInvoices(cfg.InvoicePath)
	if err != nil {
		return nil, err
	}
	if _, err := h.Store.Import(ctx, cfg.InvoicePath, rows); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (h *Handler) run(ctx context.Context, mode payroll.Mode, sink payroll.LedgerSink) (*payroll.RunResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cfg, err := h.load(ctx)
	if err != nil {
		return nil, err
	}
	runner := payroll.NewRunner(cfg, h.Store)
	runner.Sink = sink
	return runner.Run(ctx, mode)
}

// =============================================================================
// HANDLERS
// =============================================================================

// Health reports server status and the last import.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rec, ok, err := h.Store.LastImport(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read import status", err)
		return
	}
	dto := HealthDTO{Status: "ok"}
	if ok {
		dto.LastImport = &rec.ImportedAt
		dto.ImportedRows = rec.RowCount
		dto.Source = rec.Source
	}
	writeJSON(w, http.StatusOK, dto)
}

// ListTutors returns the roster in payload order.
func (h *Handler) ListTutors(w http.ResponseWriter, r *http.Request) {
	cfg, err := factory.LoadPayload(h.PayloadPath)
	if err != nil {
		writeRunError(w, err)
		return
	}
	dtos := make([]TutorDTO, len(cfg.Tutors))
	for i, t := range cfg.Tutors {
		dtos[i] = toTutorDTO(t, cfg.IsExcluded(t.ID))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Report runs report_only and returns payouts and the total to fund.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	result, err := h.run(r.Context(), payroll.ModeReportOnly, nil)
	if err != nil {
		writeRunError(w, err)
		return
	}
	dto := ReportDTO{
		RunID:   result.RunID,
		Period:  result.PeriodName,
		Total:   result.Total.StringFixed(payroll.CentPlaces),
		Payouts: make([]PayoutDTO, len(result.Payouts)),
	}
	for i, p := range result.Payouts {
		dto.Payouts[i] = toPayoutDTO(p)
	}
	writeJSON(w, http.StatusOK, dto)
}

// Ledger previews the documentation ledger without writing it.
func (h *Handler) Ledger(w http.ResponseWriter, r *http.Request) {
	sink := &previewSink{}
	result, err := h.run(r.Context(), payroll.ModeDocumentOnly, sink)
	if err != nil {
		writeRunError(w, err)
		return
	}
	fileName := document.LedgerFileName(result.PeriodName, result.StartedAt)

	if r.URL.Query().Get("format") == "csv" {
		data, err := document.EncodeLedger(sink.rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to encode ledger", err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	dto := LedgerDTO{
		RunID:    result.RunID,
		Period:   result.PeriodName,
		FileName: fileName,
		Columns:  payroll.LedgerColumns,
		Rows:     make([][]string, len(sink.rows)),
	}
	for i, row := range sink.rows {
		dto.Rows[i] = row.Record()
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeRunError maps engine errors to HTTP statuses.
func writeRunError(w http.ResponseWriter, err error) {
	var missing *payroll.MissingTutorsError
	switch {
	case errors.As(err, &missing):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:      "Invoices reference tutors missing from the payload",
			Details:    err.Error(),
			Identities: missing.Identities,
		})
	case payroll.IsInputError(err),
		errors.Is(err, ingestion.ErrMissingColumn),
		errors.Is(err, ingestion.ErrMalformedExport):
		writeError(w, http.StatusUnprocessableEntity, "Invalid payroll input", err)
	default:
		writeError(w, http.StatusInternalServerError, "Payroll run failed", err)
	}
}
