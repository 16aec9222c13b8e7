package payroll_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/tutor-payroll/payroll"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"$40.00", "40"},
		{"$1,234.56", "1234.56"},
		{"$12,345,678", "12345678"},
		{"  $7.5 ", "7.5"},
		{"12", "12"},
		{"-$5.00", "-5"},
		{"$0.00", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := payroll.ParseAmount(tt.in)
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseAmount_Malformed(t *testing.T) {
	for _, in := range []string{
		"", "$", "forty", "$4O.00", "$+5", "1 000", "--5", "$$5",
		"$1e3", "1,,0", "1,23.00", "1234,567", ",123", "1.", ".", "$1,000.5.0",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := payroll.ParseAmount(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, payroll.ErrMalformedAmount)

			var parseErr *payroll.AmountParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, in, parseErr.Value)
		})
	}
}

func TestTakeHome_KnownValues(t *testing.T) {
	tests := []struct {
		name            string
		gross, fee, cut string
		want            string
	}{
		{"half cut", "100.00", "0.05", "0.5", "47.61"},
		{"sixty percent", "40.00", "0.05", "0.6", "22.85"},
		{"no fee", "80.00", "0", "0.5", "40.00"},
		{"exact cent", "105.00", "0.05", "1", "100.00"},
		{"zero revenue", "0", "0.05", "0.5", "0.00"},
		{"zero cut", "100.00", "0.05", "0", "0.00"},
		{"negative rounds down", "-100.00", "0.05", "0.5", "-47.62"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := payroll.TakeHome(dec(tt.gross), dec(tt.fee), dec(tt.cut))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestTakeHome_FloorProperties(t *testing.T) {
	// GIVEN: Random revenue, fee and cut
	// THEN: Take-home has at most two decimals, never exceeds the unrounded
	//       value, and drops less than one cent

	rng := rand.New(rand.NewSource(7))
	cent := dec("0.01")
	for i := 0; i < 2000; i++ {
		gross := decimal.NewFromInt(rng.Int63n(2_000_000) - 100_000).Shift(-2)
		fee := decimal.NewFromInt(rng.Int63n(31)).Shift(-2)
		cut := decimal.NewFromInt(rng.Int63n(101)).Shift(-2)

		got := payroll.TakeHome(gross, fee, cut)
		exact := gross.Mul(cut).Div(decimal.NewFromInt(1).Add(fee))

		require.True(t, got.Equal(got.Truncate(2)), "more than two decimals: %s", got)
		require.True(t, got.LessThanOrEqual(exact), "%s > %s (gross=%s fee=%s cut=%s)", got, exact, gross, fee, cut)
		require.True(t, exact.Sub(got).LessThan(cent), "%s - %s >= 0.01", exact, got)
	}
}

func TestCents(t *testing.T) {
	assert.Equal(t, int64(4761), payroll.Cents(dec("47.61")))
	assert.Equal(t, int64(4761), payroll.Cents(dec("47.619")))
	assert.Equal(t, int64(0), payroll.Cents(decimal.Zero))
	assert.Equal(t, int64(-4762), payroll.Cents(dec("-47.62")))
}
