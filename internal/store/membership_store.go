package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fleetwatch/internal/models"
)

// MembershipStore persists (zone, vehicle) membership flags in Postgres.
type MembershipStore struct {
	db *gorm.DB
}

func NewMembershipStore(db *gorm.DB) *MembershipStore {
	return &MembershipStore{db: db}
}

// LoadAll returns the full membership snapshot. The observer calls this once
// per pass instead of doing per-pair round trips.
func (s *MembershipStore) LoadAll(ctx context.Context) ([]models.MembershipState, error) {
	var states []models.MembershipState
	if err := s.db.WithContext(ctx).Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

// UpsertBatch writes membership rows in one statement, keyed on
// (zone_id, vehicle_id), last write wins.
func (s *MembershipStore) UpsertBatch(ctx context.Context, states []models.MembershipState) error {
	if len(states) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "zone_id"}, {Name: "vehicle_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_inside", "last_updated"}),
	}).Create(&states).Error
}
