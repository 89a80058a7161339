package models

import "time"

const (
	EventEntry = "ENTRY"
	EventExit  = "EXIT"
)

// TransitionEvent is one ENTRY or EXIT crossing, append-only. Consecutive
// events for the same (zone, vehicle) pair alternate by construction of the
// detector, never by validation here.
type TransitionEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	VehicleID int       `json:"vehicle_id"`
	ZoneID    int       `json:"zone_id" gorm:"index:idx_zone_time"`
	EventType string    `json:"event_type"` // ENTRY or EXIT
	Timestamp time.Time `json:"timestamp" gorm:"index:idx_zone_time"`
}
