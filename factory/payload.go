/*
Package factory converts the payroll payload file into a payroll.Config.

PURPOSE:
  The payroll payload is edited by hand every month (new tutors, new
  period name, exclusions). The factory parses it once at startup,
  normalizes every identity, and validates every field, so the engine
  only ever sees a complete, typed configuration.

FORMATS:
  .json  Primary payload format (decoded with goccy/go-json)
  .toml  Same keys, friendlier for hand editing

JSON SCHEMA:
  {
    "squareInvoiceSummaryFilePath": "exports/invoices-2024-09.csv",
    "payrollDocumentPath": "payroll",
    "periodName": "2024-09",
    "customerServiceFeeFraction": 0.05,
    "tutors": [
      {"name": "Ada L.", "tutorID": "@ada", "stripeEmail": "ada@example.com",
       "school": "RPI", "tutorCut": 0.5}
    ],
    "excludeFromPayoutsAndStripeTransfers": ["@owner"]
  }

KEY FEATURES:
  - Normalizes tutorID and exclusion entries (leading "@", whitespace)
  - Rejects duplicate tutor identities after normalization
  - Requires the exclusion field, when present, to be a list
  - Reports every validation problem at once

USAGE:
  cfg, err := factory.LoadPayload("tutorpayrollpayload.json")
  if errors.Is(err, payroll.ErrInvalidConfig) {
      // fix the payload
  }

SEE ALSO:
  - payroll/types.go: Config, Tutor
  - payroll/identity.go: NormalizeIdentity
*/
package factory

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/warp/tutor-payroll/payroll"
)

// =============================================================================
// PAYLOAD SCHEMA TYPES
// =============================================================================

// PayloadJSON is the on-disk representation of the payroll payload.
type PayloadJSON struct {
	InvoicePath string       `json:"squareInvoiceSummaryFilePath" toml:"squareInvoiceSummaryFilePath"`
	DocumentDir string       `json:"payrollDocumentPath" toml:"payrollDocumentPath"`
	PeriodName  string       `json:"periodName" toml:"periodName"`
	ServiceFee  Fraction     `json:"customerServiceFeeFraction" toml:"customerServiceFeeFraction"`
	Tutors      []TutorJSON  `json:"tutors" toml:"tutors"`
	Excluded    IdentityList `json:"excludeFromPayoutsAndStripeTransfers" toml:"excludeFromPayoutsAndStripeTransfers"`
}

// TutorJSON is one roster entry.
type TutorJSON struct {
	Name        string   `json:"name" toml:"name"`
	TutorID     string   `json:"tutorID" toml:"tutorID"`
	StripeEmail string   `json:"stripeEmail" toml:"stripeEmail"`
	School      string   `json:"school" toml:"school"`
	TutorCut    Fraction `json:"tutorCut" toml:"tutorCut"`
}

// Fraction is a decimal that remembers whether it was present.
type Fraction struct {
	Value decimal.Decimal
	Set   bool
}

func (f *Fraction) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Fraction{}
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = Fraction{Value: d, Set: true}
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (f *Fraction) UnmarshalTOML(v any) error {
	var d decimal.Decimal
	switch x := v.(type) {
	case int64:
		d = decimal.NewFromInt(x)
	case float64:
		d = decimal.NewFromFloat(x)
	case string:
		var err error
		if d, err = decimal.NewFromString(x); err != nil {
			return err
		}
	default:
		return fmt.Errorf("expected a number, got %T", v)
	}
	*f = Fraction{Value: d, Set: true}
	return nil
}

// IdentityList is a list of identities. A bare string is rejected rather
// than guessed at.
type IdentityList []string

func (l *IdentityList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) == 0 || data[0] != '[' {
		return fmt.Errorf("excludeFromPayoutsAndStripeTransfers must be a list of tutor IDs")
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*l = ids
	return nil
}

// =============================================================================
// VALIDATION ERRORS
// =============================================================================

// ValidationError lists every problem found in a payload.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid payroll payload:\n  " + strings.Join(e.Problems, "\n  ")
}

func (e *ValidationError) Unwrap() error {
	return payroll.ErrInvalidConfig
}

// =============================================================================
// LOADING
// =============================================================================

// LoadPayload reads and validates the payload at path. The format is chosen
// by extension; anything other than .toml is read as JSON.
func LoadPayload(path string) (*payroll.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseTOML(data)
	}
	return ParseJSON(data)
}

// ParseJSON parses a JSON payload.
func ParseJSON(data []byte) (*payroll.Config, error) {
	var pj PayloadJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return nil, fmt.Errorf("%w: %v", payroll.ErrInvalidConfig, err)
	}
	return FromJSON(pj)
}

// ParseTOML parses a TOML payload.
func ParseTOML(data []byte) (*payroll.Config, error) {
	var pj PayloadJSON
	if _, err := toml.Decode(string(data), &pj); err != nil {
		return nil, fmt.Errorf("%w: %v", payroll.ErrInvalidConfig, err)
	}
	return FromJSON(pj)
}

// FromJSON validates a decoded payload and converts it to a payroll.Config.
func FromJSON(pj PayloadJSON) (*payroll.Config, error) {
	var problems []string
	problemf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(pj.InvoicePath) == "" {
		problemf("squareInvoiceSummaryFilePath is required")
	}
	if strings.TrimSpace(pj.DocumentDir) == "" {
		problemf("payrollDocumentPath is required")
	}
	if strings.TrimSpace(pj.PeriodName) == "" {
		problemf("periodName is required")
	}
	switch {
	case !pj.ServiceFee.Set:
		problemf("customerServiceFeeFraction is required")
	case pj.ServiceFee.Value.IsNegative():
		problemf("customerServiceFeeFraction must not be negative, got %s", pj.ServiceFee.Value)
	}
	if len(pj.Tutors) == 0 {
		problemf("tutors must list at least one tutor")
	}

	cfg := &payroll.Config{
		InvoicePath: pj.InvoicePath,
		DocumentDir: pj.DocumentDir,
		PeriodName:  strings.TrimSpace(pj.PeriodName),
		ServiceFee:  pj.ServiceFee.Value,
		Excluded:    make(map[string]struct{}, len(pj.Excluded)),
	}

	seen := make(map[string]int, len(pj.Tutors))
	for i, tj := range pj.Tutors {
		pos := i + 1
		id := payroll.NormalizeIdentity(tj.TutorID)
		if id == "" {
			problemf("tutors[%d]: tutorID is required", pos)
		} else if first, dup := seen[id]; dup {
			problemf("tutors[%d]: tutorID %q duplicates tutors[%d]", pos, id, first)
		} else {
			seen[id] = pos
		}
		if strings.TrimSpace(tj.Name) == "" {
			problemf("tutors[%d]: name is required", pos)
		}
		switch {
		case !tj.TutorCut.Set:
			problemf("tutors[%d]: tutorCut is required", pos)
		case tj.TutorCut.Value.IsNegative():
			problemf("tutors[%d]: tutorCut must not be negative, got %s", pos, tj.TutorCut.Value)
		}

		cfg.Tutors = append(cfg.Tutors, payroll.Tutor{
			ID:                id,
			Name:              strings.TrimSpace(tj.Name),
			School:            strings.TrimSpace(tj.School),
			Cut:               tj.TutorCut.Value,
			PayoutDestination: strings.TrimSpace(tj.StripeEmail),
		})
	}

	for i, raw := range pj.Excluded {
		id := payroll.NormalizeIdentity(raw)
		if id == "" {
			problemf("excludeFromPayoutsAndStripeTransfers[%d] is empty", i+1)
			continue
		}
		cfg.Excluded[id] = struct{}{}
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return cfg, nil
}
