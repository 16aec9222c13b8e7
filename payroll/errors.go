/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers classify failures with errors.Is against the sentinels, or
  errors.As against the structured types to get the offending identities.

ERROR CATEGORIES:
  1. Precondition errors - Roster or payout destinations are incomplete.
     The run aborts before any money moves.
  2. Input errors - Malformed invoice amounts or configuration
  3. Wiring errors - A mode was run without the collaborator it needs

SEE ALSO:
  - reconcile.go: Returns MissingTutorsError
  - run.go: Returns UnresolvedDestinationsError
  - factory/payload.go: Wraps ErrInvalidConfig
*/
package payroll

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingTutors is returned when the invoice export references
	// tutors that are neither in the roster nor excluded.
	ErrMissingTutors = errors.New("missing information on tutors")

	// ErrUnresolvedDestinations is returned when payable tutors have no
	// matching account at the transfer gateway.
	ErrUnresolvedDestinations = errors.New("unresolved payout destinations")

	// ErrMalformedAmount is returned when an invoice amount cannot be parsed.
	ErrMalformedAmount = errors.New("malformed monetary amount")

	// ErrInvalidConfig is returned when the payroll payload fails validation.
	ErrInvalidConfig = errors.New("invalid payroll configuration")

	// ErrInvalidMode is returned for an unknown run mode.
	ErrInvalidMode = errors.New("invalid run mode")

	// ErrGatewayRequired is returned when a transfer run has no gateway.
	ErrGatewayRequired = errors.New("run mode requires a transfer gateway")

	// ErrSinkRequired is returned when a documenting run has no ledger sink.
	ErrSinkRequired = errors.New("run mode requires a ledger sink")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// MissingTutorsError lists every invoice identity absent from the roster.
type MissingTutorsError struct {
	Identities []string
}

func (e *MissingTutorsError) Error() string {
	return enumerate("Missing information on the following tutors:", e.Identities)
}

func (e *MissingTutorsError) Unwrap() error {
	return ErrMissingTutors
}

// UnresolvedDestinationsError lists every payable tutor whose payout
// destination the gateway could not resolve.
type UnresolvedDestinationsError struct {
	Identities []string
}

func (e *UnresolvedDestinationsError) Error() string {
	return enumerate("Unable to find payout accounts for the following tutors:", e.Identities)
}

func (e *UnresolvedDestinationsError) Unwrap() error {
	return ErrUnresolvedDestinations
}

// AmountParseError describes an invoice amount that could not be parsed.
type AmountParseError struct {
	Line  int
	Value string
	Err   error
}

func (e *AmountParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invoice line %d: malformed requested amount %q", e.Line, e.Value)
	}
	return fmt.Sprintf("malformed requested amount %q", e.Value)
}

func (e *AmountParseError) Unwrap() error {
	return ErrMalformedAmount
}

func enumerate(heading string, ids []string) string {
	var sb strings.Builder
	sb.WriteString(heading)
	for _, id := range ids {
		sb.WriteString("\n")
		sb.WriteString(id)
	}
	return sb.String()
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsPrecondition returns true if the run was refused before any transfer
// because the roster or payout accounts need fixing.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrMissingTutors) ||
		errors.Is(err, ErrUnresolvedDestinations)
}

// IsInputError returns true if the error is due to bad input files.
func IsInputError(err error) bool {
	return errors.Is(err, ErrMalformedAmount) ||
		errors.Is(err, ErrInvalidConfig)
}
