package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fleetwatch/internal/models"
)

// LeaseStore implements the per-region single-writer lease on top of a
// Postgres row with SELECT ... FOR UPDATE.
type LeaseStore struct {
	db *gorm.DB
}

func NewLeaseStore(db *gorm.DB) *LeaseStore {
	return &LeaseStore{db: db}
}

// Acquire takes or renews the lease for a region. It returns false when a
// different holder owns a live lease.
func (s *LeaseStore) Acquire(ctx context.Context, region, holder string, ttl time.Duration) (bool, error) {
	now := time.Now()
	acquired := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lease models.ObserverLease
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("region = ?", region).
			First(&lease).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			lease = models.ObserverLease{Region: region, Holder: holder, ExpiresAt: now.Add(ttl)}
			if err := tx.Create(&lease).Error; err != nil {
				return err
			}
			acquired = true
			return nil
		}
		if err != nil {
			return err
		}

		if lease.Holder == holder || lease.ExpiresAt.Before(now) {
			lease.Holder = holder
			lease.ExpiresAt = now.Add(ttl)
			if err := tx.Save(&lease).Error; err != nil {
				return err
			}
			acquired = true
		}
		return nil
	})

	return acquired, err
}
