package flow

import (
	"time"

	"detailbook/models"
)

// Snapshot extracts the persisted subset of the state.
func (s State) Snapshot() models.SessionSnapshot {
	return models.SessionSnapshot{
		CurrentStep:      s.CurrentStep,
		FormData:         s.FormData,
		CalculatedPrice:  s.CalculatedPrice,
		IsRebooking:      s.IsRebooking,
		RebookedFrom:     s.RebookedFrom,
		SessionTimestamp: s.SessionTimestamp,
		SessionExpiry:    s.SessionExpiry,
	}
}

// Rehydrate rebuilds a state from a stored snapshot. A missing or expired
// snapshot yields a fresh state stamped at now; everything that is not
// persisted starts out empty.
func Rehydrate(snap *models.SessionSnapshot, now time.Time) State {
	if snap == nil {
		return NewState(now, DefaultSessionExpiry)
	}
	expiry := snapshotExpiry(*snap)
	if SnapshotExpired(*snap, now) {
		return NewState(now, expiry)
	}

	s := NewState(snap.SessionTimestamp, expiry)
	s.CurrentStep = clampStep(snap.CurrentStep)
	s.FormData = snap.FormData
	s.CalculatedPrice = snap.CalculatedPrice
	s.IsRebooking = snap.IsRebooking
	s.RebookedFrom = snap.RebookedFrom
	if s.FormData.User != nil {
		s.IsExistingUser = s.FormData.User.IsExistingUser
	}
	return s
}

// SnapshotExpired reports whether the snapshot's idle window had passed at now.
func SnapshotExpired(snap models.SessionSnapshot, now time.Time) bool {
	return now.Sub(snap.SessionTimestamp) > snapshotExpiry(snap)
}

func snapshotExpiry(snap models.SessionSnapshot) time.Duration {
	if snap.SessionExpiry <= 0 {
		return DefaultSessionExpiry
	}
	return snap.SessionExpiry
}
