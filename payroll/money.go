package payroll

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes amounts in the invoice export.
const CurrencySymbol = "$"

// CentPlaces is the number of fractional digits payouts are rounded to.
const CentPlaces = 2

var one = decimal.NewFromInt(1)

// amountPattern is a plain decimal, optionally grouped by commas in threes.
var amountPattern = regexp.MustCompile(`^(\d{1,3}(,\d{3})+|\d*)(\.\d+)?$`)

// ParseAmount parses a display amount such as "$1,234.56" or "-$5.00".
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(s[1:])
	}
	s = strings.TrimPrefix(s, CurrencySymbol)
	if !amountPattern.MatchString(s) || !strings.ContainsAny(s, "0123456789") {
		return decimal.Zero, &AmountParseError{Value: raw}
	}
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &AmountParseError{Value: raw, Err: err}
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// TakeHome computes gross / (1 + serviceFee) * cut, rounded down to the
// cent. The division is done last and as exact integer division, so the
// result never exceeds the unrounded value and drops less than one cent.
func TakeHome(gross, serviceFee, cut decimal.Decimal) decimal.Decimal {
	numerator := gross.Mul(cut).Shift(CentPlaces)
	divisor := one.Add(serviceFee)

	cents, rem := numerator.QuoRem(divisor, 0)
	if rem.IsNegative() {
		cents = cents.Sub(one)
	}
	return cents.Shift(-CentPlaces)
}

// Cents converts an amount to whole cents, rounding down.
func Cents(amount decimal.Decimal) int64 {
	return amount.Shift(CentPlaces).Floor().IntPart()
}
