package models

import "time"

// MembershipState is the durable last-known inside/outside flag for one
// (zone, vehicle) pair. Absence of a row means the pair has never been
// observed; the detector treats that as outside.
type MembershipState struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	ZoneID      int       `json:"zone_id" gorm:"uniqueIndex:idx_zone_vehicle"`
	VehicleID   int       `json:"vehicle_id" gorm:"uniqueIndex:idx_zone_vehicle"`
	IsInside    bool      `json:"is_inside"`
	LastUpdated time.Time `json:"last_updated"`
}
