// Package ingestion loads the Square invoice summary export into
// payroll.InvoiceRow values.
package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/warp/tutor-payroll/payroll"
)

// Column names in the Square invoice summary export.
const (
	ColumnTitle           = "Invoice Title"
	ColumnStatus          = "Status"
	ColumnRequestedAmount = "Requested Amount"
)

var requiredColumns = []string{ColumnTitle, ColumnStatus, ColumnRequestedAmount}

var (
	// ErrMissingColumn is returned when the export header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")

	// ErrMalformedExport is returned when the export cannot be read as an
	// invoice summary: CSV syntax errors, or rows that name no tutor.
	ErrMalformedExport = errors.New("malformed invoice export")
)

// columnIndex maps required column names to their position, resolved once
// from the header row.
type columnIndex map[string]int

func resolveColumns(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}

	idx := make(columnIndex, len(requiredColumns))
	var missing []string
	for _, col := range requiredColumns {
		pos, ok := positions[strings.ToLower(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx[col] = pos
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

func (c columnIndex) get(row []string, col string) string {
	pos := c[col]
	if pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}

// LoadInvoices reads the export at path.
func LoadInvoices(path string) ([]payroll.InvoiceRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open invoice export: %w", err)
	}
	defer f.Close()

	rows, err := ParseInvoices(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

// ParseInvoices parses an invoice export. Line numbers are physical lines
// of the file, header included. Amounts are kept as display strings.
func ParseInvoices(r io.Reader) ([]payroll.InvoiceRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMalformedExport)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrMalformedExport, err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []payroll.InvoiceRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.ParseError already names the line.
			return nil, fmt.Errorf("%w: %w", ErrMalformedExport, err)
		}
		if isBlank(record) {
			continue
		}
		lineNum, _ := reader.FieldPos(0)

		title := cols.get(record, ColumnTitle)
		tutorID := payroll.IdentityFromTitle(title)
		if tutorID == "" {
			return nil, fmt.Errorf("line %d: %w: invoice title %q names no tutor", lineNum, ErrMalformedExport, title)
		}

		rows = append(rows, payroll.InvoiceRow{
			Line:            lineNum,
			Title:           title,
			TutorID:         tutorID,
			Status:          payroll.InvoiceStatus(cols.get(record, ColumnStatus)),
			RequestedAmount: cols.get(record, ColumnRequestedAmount),
		})
	}

	return rows, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
