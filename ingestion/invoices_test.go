package ingestion_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/tutor-payroll/ingestion"
	"github.com/warp/tutor-payroll/payroll"
)

const squareExport = `Invoice ID,Invoice Title,Customer,Status,Requested Amount,Due Date
inv_1,SAT Math Tutoring @A1,Pat,Completed,$100.00,2024-09-03
inv_2,SAT Math Tutoring @A1,Pat,Canceled,$50.00,2024-09-10
inv_3,Chemistry B2,Sam,Completed,"$1,040.00",2024-09-12
`

func TestParseInvoices(t *testing.T) {
	rows, err := ingestion.ParseInvoices(strings.NewReader(squareExport))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, payroll.InvoiceRow{
		Line:            2,
		Title:           "SAT Math Tutoring @A1",
		TutorID:         "A1",
		Status:          payroll.StatusCompleted,
		RequestedAmount: "$100.00",
	}, rows[0])
	assert.True(t, rows[1].IsCanceled())
	assert.Equal(t, "B2", rows[2].TutorID)
	assert.Equal(t, "$1,040.00", rows[2].RequestedAmount)
	assert.Equal(t, 4, rows[2].Line)
}

func TestParseInvoices_HeaderMatchingIsLoose(t *testing.T) {
	// Excel exports add a byte order mark and people retype headers.
	data := "\ufeff requested amount ,STATUS,invoice title\n$5.00,Completed,Geometry @C3\n"

	rows, err := ingestion.ParseInvoices(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "C3", rows[0].TutorID)
	assert.Equal(t, "$5.00", rows[0].RequestedAmount)
}

func TestParseInvoices_SkipsBlankLinesKeepsLineNumbers(t *testing.T) {
	data := "Invoice Title,Status,Requested Amount\n,,\nSession @A1,Completed,$1.00\n"

	rows, err := ingestion.ParseInvoices(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Line)
}

func TestParseInvoices_MissingColumn(t *testing.T) {
	_, err := ingestion.ParseInvoices(strings.NewReader("Invoice Title,Status\nSession @A1,Completed\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ingestion.ErrMissingColumn)
	assert.Contains(t, err.Error(), "Requested Amount")
}

func TestParseInvoices_TitleWithoutTutor(t *testing.T) {
	data := "Invoice Title,Status,Requested Amount\nSession @A1,Completed,$1.00\n   ,Completed,$2.00\n"

	_, err := ingestion.ParseInvoices(strings.NewReader(data))
	require.Error(t, err)
	assert.ErrorIs(t, err, ingestion.ErrMalformedExport)
	assert.Contains(t, err.Error(), "line 3")
}

func TestParseInvoices_EmptyFile(t *testing.T) {
	_, err := ingestion.ParseInvoices(strings.NewReader(""))
	assert.ErrorIs(t, err, ingestion.ErrMalformedExport)
}

func TestParseInvoices_CSVSyntaxError(t *testing.T) {
	data := "Invoice Title,Status,Requested Amount\nSes\"sion @A1,Completed,$1.00\n"

	_, err := ingestion.ParseInvoices(strings.NewReader(data))
	require.Error(t, err)
	assert.ErrorIs(t, err, ingestion.ErrMalformedExport)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseInvoices_MultilineFieldKeepsPhysicalLines(t *testing.T) {
	// GIVEN: A note field that spans two physical lines
	// THEN: Rows after it carry their real line numbers

	data := "Invoice Title,Status,Requested Amount,Note\n" +
		"Session @A1,Completed,$1.00,\"first line\nsecond line\"\n" +
		"Session @B2,Completed,$2.00,\n"

	rows, err := ingestion.ParseInvoices(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, 4, rows[1].Line)

	_, err = ingestion.ParseInvoices(strings.NewReader(data + "   ,Completed,$3.00,\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 5")
}

func TestLoadInvoices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoices.csv")
	require.NoError(t, os.WriteFile(path, []byte(squareExport), 0o644))

	rows, err := ingestion.LoadInvoices(path)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	_, err = ingestion.LoadInvoices(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
