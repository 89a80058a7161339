package geofence

import (
	"context"
	"time"

	"fleetwatch/internal/models"
)

// MembershipStore is the durable source of truth for (zone, vehicle) membership.
// The observer loads one full snapshot per pass and writes one batch back.
type MembershipStore interface {
	LoadAll(ctx context.Context) ([]models.MembershipState, error)
	// UpsertBatch is idempotent, keyed (zone_id, vehicle_id), last-write-wins.
	UpsertBatch(ctx context.Context, states []models.MembershipState) error
}

// EventLog is the append-only transition history. Append does no dedup: the
// detector, reading the membership store, is what keeps duplicates out.
type EventLog interface {
	Append(ctx context.Context, events []models.TransitionEvent) error
	// QueryByZone returns events for a zone since a timestamp, newest first.
	QueryByZone(ctx context.Context, zoneID int, since time.Time) ([]models.TransitionEvent, error)
}

// LeaseStore hands out per-region single-writer leases so overlapping
// heartbeat triggers cannot both run a detection pass for the same region.
type LeaseStore interface {
	// Acquire returns true when holder now owns the region lease until ttl
	// elapses. It also returns true when holder already owns a live lease.
	Acquire(ctx context.Context, region, holder string, ttl time.Duration) (bool, error)
}
