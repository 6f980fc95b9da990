package cart

import (
	"fmt"
	"log"
)

// MergeFailure records one anonymous line that could not be merged into
// the server cart.
type MergeFailure struct {
	GearItemID string `json:"gear_item_id"`
	Quantity   int    `json:"quantity"`
	Reason     string `json:"reason"`
}

// MergeReport summarizes a reconciliation run.
type MergeReport struct {
	Merged   int            `json:"merged"`
	Failures []MergeFailure `json:"failures,omitempty"`
}

// Failed reports whether any line could not be merged.
func (r *MergeReport) Failed() bool {
	return len(r.Failures) > 0
}

// Reconcile merges the anonymous local cart into the authenticated user's
// server cart after login. Each local entry is added with merge semantics
// (quantities for an already-present gear item sum). A failing line is
// recorded and skipped, never aborting the run. Afterwards the local blob
// is deleted unconditionally, so a partially-failed sync cannot surface
// duplicate lines on the next login.
//
// The only error returned is ErrNotAuthenticated; merge failures live in
// the report.
func (s *Store) Reconcile() (*MergeReport, error) {
	userID, ok := s.creds.UserID()
	if !ok {
		return nil, fmt.Errorf("cannot reconcile anonymous cart: %w", ErrNotAuthenticated)
	}

	report := &MergeReport{}
	entries, err := s.local.Entries()
	if err != nil {
		// An unreadable blob is treated like a failed sync: report it and
		// still wipe the blob below.
		report.Failures = append(report.Failures, MergeFailure{Reason: err.Error()})
		entries = nil
	}
	if len(entries) == 0 && !report.Failed() {
		return report, nil
	}

	for _, e := range entries {
		if _, err := s.server.Add(userID, e.GearItemID, e.Quantity); err != nil {
			log.Printf("cart merge: gear item %s x%d not synced: %v", e.GearItemID, e.Quantity, err)
			report.Failures = append(report.Failures, MergeFailure{
				GearItemID: e.GearItemID,
				Quantity:   e.Quantity,
				Reason:     err.Error(),
			})
			continue
		}
		report.Merged++
	}

	if err := s.local.Clear(); err != nil {
		log.Printf("cart merge: failed to clear local cart: %v", err)
	}
	return report, nil
}
