package geofence

import (
	"time"

	"fleetwatch/internal/models"
)

// PairKey identifies one (zone, vehicle) membership slot.
type PairKey struct {
	ZoneID    int
	VehicleID int
}

// DetectResult carries everything one detector pass wants persisted: new
// transition events for the log and state rows for the membership store.
type DetectResult struct {
	Events       []models.TransitionEvent
	StateUpdates []models.MembershipState
}

// Detect compares freshly computed membership against the stored snapshot and
// decides which transitions happened. Absence from prior means the pair has
// never been observed.
//
// Rules per pair:
//   - inside now, outside before        -> ENTRY, state true
//   - outside now, inside before        -> EXIT, state false
//   - outside now, never observed       -> no event, baseline state false
//   - inside now, never observed        -> no event, baseline state true
//   - unchanged                         -> nothing (avoids store churn)
//
// First sighting while inside deliberately writes the baseline without an
// event, symmetric with the outside case: a vehicle that was already parked in
// a zone before we started watching did not "enter" it on our first pass.
//
// Running Detect twice with identical inputs yields zero events and zero
// updates the second time, and events for a single pair always alternate
// ENTRY/EXIT across passes.
func Detect(current, prior map[PairKey]bool, now time.Time) DetectResult {
	var res DetectResult

	for key, inside := range current {
		was, known := prior[key]

		switch {
		case inside && known && !was:
			res.Events = append(res.Events, models.TransitionEvent{
				VehicleID: key.VehicleID,
				ZoneID:    key.ZoneID,
				EventType: models.EventEntry,
				Timestamp: now,
			})
			res.StateUpdates = append(res.StateUpdates, stateRow(key, true, now))

		case !inside && known && was:
			res.Events = append(res.Events, models.TransitionEvent{
				VehicleID: key.VehicleID,
				ZoneID:    key.ZoneID,
				EventType: models.EventExit,
				Timestamp: now,
			})
			res.StateUpdates = append(res.StateUpdates, stateRow(key, false, now))

		case !known:
			res.StateUpdates = append(res.StateUpdates, stateRow(key, inside, now))
		}
	}

	return res
}

func stateRow(key PairKey, inside bool, now time.Time) models.MembershipState {
	return models.MembershipState{
		ZoneID:      key.ZoneID,
		VehicleID:   key.VehicleID,
		IsInside:    inside,
		LastUpdated: now,
	}
}
