package geofence

import (
	"sync"
	"time"
)

// Occupant is one vehicle currently observed inside a zone during this
// session. EntryTime is the first moment this tracker saw the vehicle inside,
// which is a lower bound on the true dwell start if the session began after
// the vehicle entered.
type Occupant struct {
	VehicleID int       `json:"vehicle_id"`
	EntryTime time.Time `json:"entry_time"`
	LastSeen  time.Time `json:"last_seen"`
	Status    string    `json:"status"` // "moving", "parked", ...
}

// OccupantTracker is the in-memory, presentation-facing occupancy projection.
// It is rebuilt from zero per session and never persisted; every applied
// snapshot is authoritative, so a client resuming after a suspend converges on
// the next snapshot without assuming continuity.
type OccupantTracker struct {
	mu    sync.Mutex
	zones map[int]map[int]*Occupant // zoneID -> vehicleID -> occupant
}

func NewOccupantTracker() *OccupantTracker {
	return &OccupantTracker{zones: make(map[int]map[int]*Occupant)}
}

// Apply feeds one (zone, vehicle) membership observation into the tracker.
// First observed-inside creates the occupant with EntryTime=now; repeat inside
// observations refresh LastSeen and Status; observed-outside discards.
func (t *OccupantTracker) Apply(zoneID, vehicleID int, inside bool, status string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	occupants := t.zones[zoneID]
	if !inside {
		if occupants != nil {
			delete(occupants, vehicleID)
			if len(occupants) == 0 {
				delete(t.zones, zoneID)
			}
		}
		return
	}

	if occupants == nil {
		occupants = make(map[int]*Occupant)
		t.zones[zoneID] = occupants
	}
	if occ, ok := occupants[vehicleID]; ok {
		occ.LastSeen = now
		occ.Status = status
		return
	}
	occupants[vehicleID] = &Occupant{
		VehicleID: vehicleID,
		EntryTime: now,
		LastSeen:  now,
		Status:    status,
	}
}

// Snapshot returns a copy of the occupants of one zone.
func (t *OccupantTracker) Snapshot(zoneID int) []Occupant {
	t.mu.Lock()
	defer t.mu.Unlock()

	occupants := t.zones[zoneID]
	out := make([]Occupant, 0, len(occupants))
	for _, occ := range occupants {
		out = append(out, *occ)
	}
	return out
}

// Dwell returns how long a vehicle has been continuously inside a zone, and
// whether it is present at all.
func (t *OccupantTracker) Dwell(zoneID, vehicleID int, now time.Time) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	occ, ok := t.zones[zoneID][vehicleID]
	if !ok {
		return 0, false
	}
	return now.Sub(occ.EntryTime), true
}

// Reset drops all session state, e.g. when a client switches region.
func (t *OccupantTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.zones = make(map[int]map[int]*Occupant)
}
