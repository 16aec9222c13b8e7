package payroll

import (
	"context"
	"fmt"
	"sort"
)

// MissingIdentities returns ledgerIDs - rosterIDs - excludedIDs, sorted and
// without duplicates.
func MissingIdentities(ledgerIDs, rosterIDs, excludedIDs []string) []string {
	known := make(map[string]struct{}, len(rosterIDs)+len(excludedIDs))
	for _, id := range rosterIDs {
		known[id] = struct{}{}
	}
	for _, id := range excludedIDs {
		known[id] = struct{}{}
	}

	seen := make(map[string]struct{})
	var missing []string
	for _, id := range ledgerIDs {
		if _, ok := known[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		missing = append(missing, id)
	}
	sort.Strings(missing)
	return missing
}

// Reconcile fails with a MissingTutorsError if any invoice references a
// tutor the configuration does not account for.
func Reconcile(ctx context.Context, invoices InvoiceLedger, cfg *Config) error {
	ledgerIDs, err := invoices.Identities(ctx)
	if err != nil {
		return fmt.Errorf("list invoice identities: %w", err)
	}

	missing := MissingIdentities(ledgerIDs, cfg.RosterIDs(), cfg.ExcludedIDs())
	if len(missing) > 0 {
		return &MissingTutorsError{Identities: missing}
	}
	return nil
}
