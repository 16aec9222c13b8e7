package payroll_test

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/tutor-payroll/payroll"
	"github.com/warp/tutor-payroll/payroll/store"
)

func TestMissingIdentities(t *testing.T) {
	missing := payroll.MissingIdentities(
		[]string{"B2", "Z9", "A1", "C3", "Z9", "OWN"},
		[]string{"A1", "B2"},
		[]string{"OWN"},
	)
	assert.Equal(t, []string{"C3", "Z9"}, missing)
}

func TestMissingIdentities_NoneMissing(t *testing.T) {
	assert.Empty(t, payroll.MissingIdentities([]string{"A1"}, []string{"A1", "B2"}, nil))
	assert.Empty(t, payroll.MissingIdentities(nil, nil, nil))
}

func TestMissingIdentities_IsSetDifference(t *testing.T) {
	// GIVEN: Random ledger, roster and exclusion sets
	// THEN: The result is exactly ledger - roster - excluded, sorted, unique

	rng := rand.New(rand.NewSource(3))
	pick := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("T%d", rng.Intn(30))
		}
		return out
	}

	for i := 0; i < 500; i++ {
		ledger, roster, excluded := pick(rng.Intn(20)), pick(rng.Intn(20)), pick(rng.Intn(5))

		known := map[string]bool{}
		for _, id := range append(roster, excluded...) {
			known[id] = true
		}
		wantSet := map[string]bool{}
		for _, id := range ledger {
			if !known[id] {
				wantSet[id] = true
			}
		}
		var want []string
		for id := range wantSet {
			want = append(want, id)
		}
		sort.Strings(want)

		got := payroll.MissingIdentities(ledger, roster, excluded)
		assert.Equal(t, want, got)
	}
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	cfg := scenarioConfig()

	require.NoError(t, payroll.Reconcile(ctx, store.NewMemory(scenarioRows()), cfg))

	rows := append(scenarioRows(), row(9, "C3", payroll.StatusCompleted, "$1.00"))
	err := payroll.Reconcile(ctx, store.NewMemory(rows), cfg)
	require.Error(t, err)
	assert.Equal(t, "Missing information on the following tutors:\nC3", err.Error())

	cfg.Excluded["C3"] = struct{}{}
	assert.NoError(t, payroll.Reconcile(ctx, store.NewMemory(rows), cfg))
}
