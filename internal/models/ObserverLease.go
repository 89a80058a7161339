package models

import "time"

// ObserverLease is the single-writer lease for one region's heartbeat pass.
// A pass that cannot acquire the lease no-ops for that region, which keeps
// overlapping cron fires from double-logging the same crossing.
type ObserverLease struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Region    string    `json:"region" gorm:"uniqueIndex"`
	Holder    string    `json:"holder"`
	ExpiresAt time.Time `json:"expires_at"`
}
