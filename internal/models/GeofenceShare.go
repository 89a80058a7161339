package models

import (
	"gorm.io/gorm"
)

// GeofenceShare maps an opaque public token to one zone in one region. At most
// one share exists per (zone, region); re-issuing returns the same token.
// ZoneData caches the zone metadata (GeoJSON-ish snapshot) so a shared view can
// render without hitting the telematics API first.
type GeofenceShare struct {
	gorm.Model
	ZoneID     int    `json:"zone_id" gorm:"uniqueIndex:idx_zone_region"`
	Region     string `json:"region" gorm:"uniqueIndex:idx_zone_region"`
	ShareToken string `json:"share_token" gorm:"uniqueIndex"`
	ZoneData   []byte `json:"zone_data,omitempty" gorm:"type:jsonb"`
}
