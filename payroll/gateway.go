package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

// TransferGateway moves money to a tutor's payout account. The engine only
// calls it in ModePayAndDocument.
//
// Provider rejections are reported through TransferOutcome with Success
// false; a non-nil error means the call itself failed and ends the run.
type TransferGateway interface {
	// ResolveDestination maps a payout destination (the tutor's payment
	// account email) to the provider's account handle.
	ResolveDestination(ctx context.Context, destination string) (handle string, found bool, err error)

	// AttemptTransfer sends amount to the resolved account.
	AttemptTransfer(ctx context.Context, handle string, amount decimal.Decimal) (TransferOutcome, error)
}
