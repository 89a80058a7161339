package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fleetwatch/internal/models"
)

// ShareStore persists share-token mappings in Postgres.
type ShareStore struct {
	db *gorm.DB
}

func NewShareStore(db *gorm.DB) *ShareStore {
	return &ShareStore{db: db}
}

// FindByZone returns the share for a (zone, region) pair, or nil when none
// exists.
func (s *ShareStore) FindByZone(ctx context.Context, zoneID int, region string) (*models.GeofenceShare, error) {
	var share models.GeofenceShare
	err := s.db.WithContext(ctx).
		Where("zone_id = ? AND region = ?", zoneID, region).
		First(&share).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &share, nil
}

// FindByToken returns the share for a token, or nil when none exists.
func (s *ShareStore) FindByToken(ctx context.Context, token string) (*models.GeofenceShare, error) {
	var share models.GeofenceShare
	err := s.db.WithContext(ctx).
		Where("share_token = ?", token).
		First(&share).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &share, nil
}

func (s *ShareStore) Create(ctx context.Context, share *models.GeofenceShare) error {
	return s.db.WithContext(ctx).Create(share).Error
}

// UpdateMetadata refreshes the cached zone snapshot of an existing share.
func (s *ShareStore) UpdateMetadata(ctx context.Context, token string, data []byte) error {
	return s.db.WithContext(ctx).
		Model(&models.GeofenceShare{}).
		Where("share_token = ?", token).
		Update("zone_data", data).Error
}

// DeleteByToken removes a share; the bool reports whether one existed.
func (s *ShareStore) DeleteByToken(ctx context.Context, token string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("share_token = ?", token).
		Delete(&models.GeofenceShare{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
