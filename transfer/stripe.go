/*
Package transfer implements payroll.TransferGateway against Stripe Connect.

PURPOSE:
  Tutors are Stripe connected accounts identified in the roster by their
  account email. Resolving a destination finds the connected account with
  that email; a transfer moves USD from the platform balance to it.

RESOLUTION:
  Connected accounts are listed once, on the first resolve, and cached by
  lowercased email for the rest of the run.

AMOUNTS:
  Stripe takes integer cents. Take-home amounts are already cent-rounded;
  Cents() floors anything finer.

OUTCOMES:
  A Stripe API error (card declined, insufficient platform balance,
  account restricted) is a failed TransferOutcome and the run continues.
  Any other error (network, auth configuration) is returned as an error
  and ends the run.

SEE ALSO:
  - payroll/gateway.go: Interface definition
  - payroll/run.go: Destination check and transfer loop
*/
package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/warp/tutor-payroll/payroll"
)

// ErrNoAPIKey is returned when no Stripe key was configured.
var ErrNoAPIKey = errors.New("stripe API key is not set")

// Stripe is a payroll.TransferGateway backed by the Stripe API.
type Stripe struct {
	api      *client.API
	currency stripe.Currency

	once     sync.Once
	accounts map[string]string
	listErr  error
}

// NewStripe creates a gateway using apiKey. The key is passed explicitly;
// nothing is read from the environment here.
func NewStripe(apiKey string) (*Stripe, error) {
	return NewStripeWithBackends(apiKey, nil)
}

// NewStripeWithBackends is NewStripe talking to the given backends instead
// of api.stripe.com. A nil backends uses the defaults.
func NewStripeWithBackends(apiKey string, backends *stripe.Backends) (*Stripe, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoAPIKey
	}
	sc := &client.API{}
	sc.Init(apiKey, backends)
	return &Stripe{api: sc, currency: stripe.CurrencyUSD}, nil
}

// ResolveDestination implements payroll.TransferGateway.
func (s *Stripe) ResolveDestination(ctx context.Context, destination string) (string, bool, error) {
	s.once.Do(func() { s.loadAccounts(ctx) })
	if s.listErr != nil {
		return "", false, s.listErr
	}
	id, ok := s.accounts[emailKey(destination)]
	return id, ok, nil
}

func (s *Stripe) loadAccounts(ctx context.Context) {
	s.accounts = make(map[string]string)
	params := &stripe.AccountListParams{}
	params.Context = ctx
	iter := s.api.Accounts.List(params)
	for iter.Next() {
		acct := iter.Account()
		if acct.Email == "" {
			continue
		}
		s.accounts[emailKey(acct.Email)] = acct.ID
	}
	if err := iter.Err(); err != nil {
		s.listErr = fmt.Errorf("list connected accounts: %w", err)
	}
}

// AttemptTransfer implements payroll.TransferGateway.
func (s *Stripe) AttemptTransfer(ctx context.Context, handle string, amount decimal.Decimal) (payroll.TransferOutcome, error) {
	params := &stripe.TransferParams{
		Amount:      stripe.Int64(payroll.Cents(amount)),
		Currency:    stripe.String(string(s.currency)),
		Destination: stripe.String(handle),
	}
	params.Context = ctx
	tr, err := s.api.Transfers.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return payroll.TransferOutcome{Success: false, Response: stripeErr.Msg}, nil
		}
		return payroll.TransferOutcome{}, err
	}
	return payroll.TransferOutcome{Success: true, Response: tr.ID}, nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
