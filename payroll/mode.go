package payroll

import "fmt"

// Mode selects what a run does with the computed payouts. It is fixed for
// the whole run.
type Mode string

const (
	// ModeReportOnly computes the total that must be funded before paying.
	ModeReportOnly Mode = "report_only"

	// ModePayAndDocument writes the ledger and issues transfers.
	ModePayAndDocument Mode = "pay_and_document"

	// ModeDocumentOnly writes the ledger without moving money.
	ModeDocumentOnly Mode = "document_only"
)

// ParseMode accepts the canonical mode names.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	switch m {
	case ModeReportOnly, ModePayAndDocument, ModeDocumentOnly:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Transfers reports whether the mode calls the transfer gateway.
func (m Mode) Transfers() bool { return m == ModePayAndDocument }

// Documents reports whether the mode writes a ledger file.
func (m Mode) Documents() bool { return m == ModePayAndDocument || m == ModeDocumentOnly }

// ReportsTotal reports whether the mode's main output is the funding total.
func (m Mode) ReportsTotal() bool { return m == ModeReportOnly }
