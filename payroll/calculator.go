package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/shopspring/decimal"
)

// Calculator computes take-home pay for one tutor from the invoice ledger.
type Calculator struct {
	Invoices   InvoiceLedger
	ServiceFee decimal.Decimal
	Logger     *log.Logger
}

func NewCalculator(invoices InvoiceLedger, serviceFee decimal.Decimal, logger *log.Logger) *Calculator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Calculator{Invoices: invoices, ServiceFee: serviceFee, Logger: logger}
}

// Compute sums the tutor's non-canceled invoices and applies the take-home
// formula. The result carries no transfer outcome.
func (c *Calculator) Compute(ctx context.Context, tutor Tutor) (PayoutResult, error) {
	rows, err := c.Invoices.RowsFor(ctx, tutor.ID)
	if err != nil {
		return PayoutResult{}, fmt.Errorf("load invoices for %s: %w", tutor.ID, err)
	}

	gross := decimal.Zero
	for _, row := range rows {
		if row.IsCanceled() {
			c.Logger.Printf("Canceled invoice on line %d", row.Line)
			continue
		}
		amount, err := ParseAmount(row.RequestedAmount)
		if err != nil {
			var parseErr *AmountParseError
			if errors.As(err, &parseErr) {
				parseErr.Line = row.Line
			}
			return PayoutResult{}, fmt.Errorf("tutor %s: %w", tutor.ID, err)
		}
		c.Logger.Printf("Invoice line %d: %s", row.Line, amount.StringFixed(CentPlaces))
		gross = gross.Add(amount)
	}

	takeHome := TakeHome(gross, c.ServiceFee, tutor.Cut)
	c.Logger.Printf("Tutor Revenue: %s", gross.StringFixed(CentPlaces))
	c.Logger.Printf("Tutor Takehome: %s", takeHome.StringFixed(CentPlaces))

	return PayoutResult{
		Tutor:        tutor,
		GrossRevenue: gross,
		TakeHome:     takeHome,
	}, nil
}
