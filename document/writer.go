/*
Package document writes the per-run payroll documentation.

PURPOSE:
  Every documenting run leaves a CSV ledger in the payroll document
  directory, named by period and run start time, plus a run log under
  logs/. The files are the only trace a run keeps.

FILE LAYOUT:
  <dir>/Period_<period>_Ran_<YYYYMMDD_HHMMSS>.csv   ledger, one row per tutor
  <dir>/logs/<YYYYMMDD_HHMMSS>.log                  run log
  <dir>/.payroll.lock                               held while a run writes

GUARANTEES:
  - A ledger file is written in one call and never overwritten; a name
    collision is an error.
  - Identical rows produce byte-identical files.

SEE ALSO:
  - payroll/ledger.go: LedgerSink interface
  - payroll/types.go: LedgerColumns, LedgerRow.Record
*/
package document

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/warp/tutor-payroll/payroll"
)

// StampLayout formats run start times in file names.
const StampLayout = "20060102_150405"

// Writer is a payroll.LedgerSink that writes CSV files into Dir.
type Writer struct {
	Dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// LedgerFileName returns the ledger file name for a run.
func LedgerFileName(period string, startedAt time.Time) string {
	return fmt.Sprintf("Period_%s_Ran_%s.csv", sanitize(period), startedAt.Format(StampLayout))
}

// WriteLedger implements payroll.LedgerSink.
func (w *Writer) WriteLedger(_ context.Context, meta payroll.RunMeta, rows []payroll.LedgerRow) (string, error) {
	data, err := EncodeLedger(rows)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create document directory: %w", err)
	}
	path := filepath.Join(w.Dir, LedgerFileName(meta.PeriodName, meta.StartedAt))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create ledger file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write ledger file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close ledger file: %w", err)
	}
	return path, nil
}

// EncodeLedger renders rows as CSV with the LedgerColumns header.
func EncodeLedger(rows []payroll.LedgerRow) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(payroll.LedgerColumns); err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row.Record()); err != nil {
			return nil, fmt.Errorf("encode row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("encode ledger: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitize keeps a period name from escaping the document directory.
func sanitize(period string) string {
	r := strings.NewReplacer("/", "-", "\\", "-", "..", "-")
	return r.Replace(strings.TrimSpace(period))
}
