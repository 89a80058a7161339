package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fleetwatch/internal/models"
)

// EventLog persists transition events append-only in Postgres.
type EventLog struct {
	db *gorm.DB
}

func NewEventLog(db *gorm.DB) *EventLog {
	return &EventLog{db: db}
}

// Append inserts a batch of events. The whole batch commits or fails as one;
// a partial write would desynchronize the log from the membership store.
func (l *EventLog) Append(ctx context.Context, events []models.TransitionEvent) error {
	if len(events) == 0 {
		return nil
	}
	return l.db.WithContext(ctx).Create(&events).Error
}

// QueryByZone returns events for one zone since a timestamp, newest first.
func (l *EventLog) QueryByZone(ctx context.Context, zoneID int, since time.Time) ([]models.TransitionEvent, error) {
	var events []models.TransitionEvent
	err := l.db.WithContext(ctx).
		Where("zone_id = ? AND timestamp > ?", zoneID, since).
		Order("timestamp desc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
