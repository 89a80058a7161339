package controllers

import (
	"context"

	"fleetwatch/internal/config"
	"fleetwatch/internal/geo"
	"fleetwatch/internal/geofence"
	"fleetwatch/internal/live"
	"fleetwatch/internal/share"
)

// TelematicsService is the full provider surface the HTTP layer consumes:
// the observer's read slice plus zone CRUD for the drawing UI.
type TelematicsService interface {
	geofence.TelematicsAPI
	CreateZone(ctx context.Context, sessionKey string, zone geo.Zone) (int, error)
	DeleteZone(ctx context.Context, sessionKey string, zoneID int) error
}

var (
	cfg      *config.Config
	observer *geofence.Observer
	eventLog geofence.EventLog
	shares   *share.Gateway
	tele     TelematicsService
	hub      *live.Hub
)

// Setup wires the controller package's collaborators. Called once from main
// before routes are registered.
func Setup(c *config.Config, obs *geofence.Observer, events geofence.EventLog, gateway *share.Gateway, api TelematicsService, h *live.Hub) {
	cfg = c
	observer = obs
	eventLog = events
	shares = gateway
	tele = api
	hub = h
}
