/*
dto.go - Data Transfer Objects for API responses

PURPOSE:
  Defines the JSON structures returned by the preview API. Money is always
  rendered as a fixed two-decimal string so clients never round it again.

TYPES:
  TutorDTO:        Roster entry
  PayoutDTO:       One computed payout
  ReportDTO:       report_only run result
  LedgerDTO:       document_only preview (rows not written to disk)
  HealthDTO:       Server and last-import status
  ErrorResponse:   Error body, with offending identities for preconditions

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/tutor-payroll/payroll"
)

type TutorDTO struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	School            string `json:"school"`
	Cut               string `json:"cut"`
	PayoutDestination string `json:"payout_destination"`
	Excluded          bool   `json:"excluded"`
}

type PayoutDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	GrossRevenue string `json:"gross_revenue"`
	TakeHome     string `json:"take_home"`
}

type ReportDTO struct {
	RunID   string      `json:"run_id"`
	Period  string      `json:"period"`
	Total   string      `json:"total"`
	Payouts []PayoutDTO `json:"payouts"`
}

type LedgerDTO struct {
	RunID    string     `json:"run_id"`
	Period   string     `json:"period"`
	FileName string     `json:"file_name"`
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
}

type HealthDTO struct {
	Status       string     `json:"status"`
	LastImport   *time.Time `json:"last_import,omitempty"`
	ImportedRows int        `json:"imported_rows"`
	Source       string     `json:"source,omitempty"`
}

type ErrorResponse struct {
	Error      string   `json:"error"`
	Details    string   `json:"details,omitempty"`
	Identities []string `json:"identities,omitempty"`
}

func toTutorDTO(t payroll.Tutor, excluded bool) TutorDTO {
	return TutorDTO{
		ID:                t.ID,
		Name:              t.Name,
		School:            t.School,
		Cut:               t.Cut.String(),
		PayoutDestination: t.PayoutDestination,
		Excluded:          excluded,
	}
}

func toPayoutDTO(p payroll.PayoutResult) PayoutDTO {
	return PayoutDTO{
		ID:           p.Tutor.ID,
		Name:         p.Tutor.Name,
		GrossRevenue: p.GrossRevenue.StringFixed(payroll.CentPlaces),
		TakeHome:     p.TakeHome.StringFixed(payroll.CentPlaces),
	}
}
