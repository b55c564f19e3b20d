// Package recon reconciles the local ledger against the remote calendar
// and tracks per-row status. Both operations are pure over the record
// slices; persistence stays with the ledger store.
package recon

import (
	"github.com/psouza/agenda-api/internal/model"
)

// Sync appends remote past events that the ledger does not already hold.
// Membership is decided by the identity key (start at minute precision
// plus client name); imported rows are marked completed because they are
// history. The returned count is the number of appended rows.
//
// Running Sync twice against unchanged inputs imports zero rows the
// second time. When two remote events collide on the identity key, the
// first one seen wins and the second is dropped; the weak key makes that
// unavoidable.
func Sync(records []model.AppointmentRecord, remotePast []model.AppointmentRecord) ([]model.AppointmentRecord, int) {
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		seen[rec.IdentityKey()] = struct{}{}
	}

	imported := 0
	for _, remote := range remotePast {
		key := remote.IdentityKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		remote.Status = model.StatusCompleted
		records = append(records, remote)
		imported++
	}
	return records, imported
}
