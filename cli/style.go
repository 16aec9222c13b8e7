package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/warp/tutor-payroll/payroll"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

// printPayoutTable renders one line per payout with right-aligned money.
func printPayoutTable(w io.Writer, payouts []payroll.PayoutResult) {
	if len(payouts) == 0 {
		return
	}
	nameWidth, idWidth := len("Name"), len("ID")
	for _, p := range payouts {
		nameWidth = max(nameWidth, lipgloss.Width(p.Tutor.Name))
		idWidth = max(idWidth, lipgloss.Width(p.Tutor.ID))
	}

	cell := func(s string, width int, right bool) string {
		return lipgloss.NewStyle().Width(width).Align(alignment(right)).Render(s)
	}
	header := strings.Join([]string{
		cell("Name", nameWidth, false),
		cell("ID", idWidth, false),
		cell("Revenue", 12, true),
		cell("Takehome", 12, true),
		cell("Transfer", 10, false),
	}, "  ")
	fmt.Fprintln(w, "  "+boldStyle.Render(header))
	fmt.Fprintln(w, "  "+dimStyle.Render(strings.Repeat("─", lipgloss.Width(header))))

	for _, p := range payouts {
		status := dimStyle.Render("-")
		if p.Transfer != nil {
			if p.Transfer.Success {
				status = successStyle.Render("sent")
			} else {
				status = errorStyle.Render("failed")
			}
		}
		fmt.Fprintln(w, "  "+strings.Join([]string{
			cell(p.Tutor.Name, nameWidth, false),
			cell(p.Tutor.ID, idWidth, false),
			cell(p.GrossRevenue.StringFixed(payroll.CentPlaces), 12, true),
			cell(p.TakeHome.StringFixed(payroll.CentPlaces), 12, true),
			status,
		}, "  "))
	}
}

func alignment(right bool) lipgloss.Position {
	if right {
		return lipgloss.Right
	}
	return lipgloss.Left
}
