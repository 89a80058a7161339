package share

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"fleetwatch/internal/models"
)

// ErrNotFound marks an unknown or revoked share token. Handlers surface it as
// a 404, never a 500.
var ErrNotFound = errors.New("share not found")

// Store is the durable mapping consumed by the gateway.
type Store interface {
	FindByZone(ctx context.Context, zoneID int, region string) (*models.GeofenceShare, error)
	FindByToken(ctx context.Context, token string) (*models.GeofenceShare, error)
	Create(ctx context.Context, share *models.GeofenceShare) error
	UpdateMetadata(ctx context.Context, token string, data []byte) error
	DeleteByToken(ctx context.Context, token string) (bool, error)
}

// Gateway issues and resolves opaque read-only share tokens, one per
// (zone, region) pair. Tokens do not expire; Revoke is the kill switch.
type Gateway struct {
	store Store
}

func NewGateway(store Store) *Gateway {
	return &Gateway{store: store}
}

// IssueOrGet returns the existing token for a (zone, region) pair or mints a
// new one. When metadata is supplied it refreshes the cached zone snapshot
// either way.
func (g *Gateway) IssueOrGet(ctx context.Context, zoneID int, region string, metadata []byte) (string, error) {
	existing, err := g.store.FindByZone(ctx, zoneID, region)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if metadata != nil {
			if err := g.store.UpdateMetadata(ctx, existing.ShareToken, metadata); err != nil {
				return "", err
			}
		}
		return existing.ShareToken, nil
	}

	share := &models.GeofenceShare{
		ZoneID:     zoneID,
		Region:     region,
		ShareToken: newToken(),
		ZoneData:   metadata,
	}
	if err := g.store.Create(ctx, share); err != nil {
		// Two concurrent issuances can race past FindByZone; the unique index
		// on (zone_id, region) decides the winner and we return its token.
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			winner, ferr := g.store.FindByZone(ctx, zoneID, region)
			if ferr == nil && winner != nil {
				return winner.ShareToken, nil
			}
		}
		return "", err
	}

	logrus.WithFields(logrus.Fields{
		"zone_id": zoneID,
		"region":  region,
	}).Info("Issued new geofence share token.")
	return share.ShareToken, nil
}

// Resolve looks a token up, returning ErrNotFound for unknown tokens.
func (g *Gateway) Resolve(ctx context.Context, token string) (*models.GeofenceShare, error) {
	share, err := g.store.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if share == nil {
		return nil, ErrNotFound
	}
	return share, nil
}

// Revoke deletes a token so the public link stops resolving.
func (g *Gateway) Revoke(ctx context.Context, token string) error {
	deleted, err := g.store.DeleteByToken(ctx, token)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	logrus.WithField("token", token).Info("Revoked geofence share token.")
	return nil
}

// newToken derives a 16-character opaque token from a v4 UUID's 128 bits.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
