package live

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"fleetwatch/internal/config"
	"fleetwatch/internal/geo"
	"fleetwatch/internal/geofence"
	"fleetwatch/internal/telematics"
)

// OccupantView is one vehicle inside a zone as shown to live clients.
type OccupantView struct {
	VehicleID    int       `json:"vehicle_id"`
	Label        string    `json:"label"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	Speed        float64   `json:"speed"`
	Heading      float64   `json:"heading"`
	Status       string    `json:"status"`
	EntryTime    time.Time `json:"entry_time"`
	LastSeen     time.Time `json:"last_seen"`
	DwellSeconds int64     `json:"dwell_seconds"`
}

// ZoneOccupancy is the per-zone snapshot broadcast to subscribers.
type ZoneOccupancy struct {
	Region    string         `json:"region"`
	ZoneID    int            `json:"zone_id"`
	Label     string         `json:"label"`
	Occupants []OccupantView `json:"occupants"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Poller runs the read-side occupancy projection: it polls positions and zones
// per region, classifies membership with the same geometry engine the observer
// uses, feeds the in-memory occupant tracker and pushes snapshots to the hub.
// It never writes to the durable stores; dwell times it reports are session
// lower bounds, not authoritative history.
type Poller struct {
	cfg      *config.Config
	api      geofence.TelematicsAPI
	hub      *Hub
	trackers map[string]*geofence.OccupantTracker
	now      func() time.Time
}

func NewPoller(cfg *config.Config, api geofence.TelematicsAPI, hub *Hub) *Poller {
	trackers := make(map[string]*geofence.OccupantTracker, len(cfg.Regions))
	for _, region := range cfg.Regions {
		trackers[region] = geofence.NewOccupantTracker()
	}
	return &Poller{
		cfg:      cfg,
		api:      api,
		hub:      hub,
		trackers: trackers,
		now:      time.Now,
	}
}

// Occupants exposes the session tracker for a region, for HTTP handlers that
// want the current projection without a socket.
func (p *Poller) Occupants(region string) *geofence.OccupantTracker {
	return p.trackers[region]
}

// Start launches one polling loop per configured region. Loops stop when ctx
// is cancelled.
func (p *Poller) Start(ctx context.Context) {
	for _, region := range p.cfg.Regions {
		if p.cfg.SessionKey(region) == "" {
			logrus.WithField("region", region).Warn("Live poller: no session key, region not polled.")
			continue
		}
		go p.loop(ctx, region)
	}
}

func (p *Poller) loop(ctx context.Context, region string) {
	ticker := time.NewTicker(p.cfg.LivePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.poll(ctx, region); err != nil {
				logrus.WithError(err).WithField("region", region).Warn("Live poll failed, will retry next tick.")
			}
		}
	}
}

func (p *Poller) poll(ctx context.Context, region string) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
	defer cancel()

	sessionKey := p.cfg.SessionKey(region)
	trackers, err := p.api.ListTrackers(ctx, sessionKey)
	if err != nil {
		return err
	}
	zones, err := p.api.ListZones(ctx, sessionKey)
	if err != nil {
		return err
	}

	now := p.now()
	occupants := p.trackers[region]
	byVehicle := make(map[int]*telematics.Tracker, len(trackers))
	for i := range trackers {
		byVehicle[trackers[i].VehicleID()] = &trackers[i]
	}

	current := geofence.CurrentMembership(zones, trackers)
	for key, inside := range current {
		status := ""
		if t, ok := byVehicle[key.VehicleID]; ok {
			status = t.Status()
		}
		occupants.Apply(key.ZoneID, key.VehicleID, inside, status, now)
	}

	for _, zone := range zones {
		snapshot := p.zoneSnapshot(region, zone, occupants, byVehicle, now)
		p.hub.Publish(Message{Key: region, Payload: snapshot})
		p.hub.Publish(Message{Key: ZoneKey(zone.ID), Payload: snapshot})
	}
	return nil
}

func (p *Poller) zoneSnapshot(region string, zone geo.Zone, occupants *geofence.OccupantTracker, byVehicle map[int]*telematics.Tracker, now time.Time) ZoneOccupancy {
	snap := ZoneOccupancy{
		Region:    region,
		ZoneID:    zone.ID,
		Label:     zone.Label,
		Occupants: []OccupantView{},
		UpdatedAt: now,
	}
	for _, occ := range occupants.Snapshot(zone.ID) {
		view := OccupantView{
			VehicleID:    occ.VehicleID,
			Status:       occ.Status,
			EntryTime:    occ.EntryTime,
			LastSeen:     occ.LastSeen,
			DwellSeconds: int64(now.Sub(occ.EntryTime).Seconds()),
		}
		if t, ok := byVehicle[occ.VehicleID]; ok {
			view.Label = t.Label
			if point, ok := t.Coordinates(); ok {
				view.Lat = point.Lat
				view.Lng = point.Lng
			}
			view.Speed = t.Speed()
			view.Heading = t.Heading()
		}
		snap.Occupants = append(snap.Occupants, view)
	}
	return snap
}
