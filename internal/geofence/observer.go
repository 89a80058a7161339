package geofence

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"fleetwatch/internal/config"
	"fleetwatch/internal/geo"
	"fleetwatch/internal/telematics"
)

// TelematicsAPI is the slice of the provider client the observer consumes.
type TelematicsAPI interface {
	ListTrackers(ctx context.Context, sessionKey string) ([]telematics.Tracker, error)
	ListZones(ctx context.Context, sessionKey string) ([]geo.Zone, error)
}

// RegionResult reports one region's fate in a heartbeat pass. A pass always
// returns a result per configured region so an external monitor can alert on a
// single region without the whole job looking down.
type RegionResult struct {
	Region    string `json:"region"`
	Processed int    `json:"processed"`
	Events    int    `json:"events"`
	Skipped   bool   `json:"skipped,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Observer drives one full classification + transition-detection pass per
// region: fetch trackers and zones, load the membership snapshot, classify the
// zones x vehicles cross product, detect transitions, append events, upsert
// states. It holds no cross-pass state; the membership store is the only
// source of truth between passes.
type Observer struct {
	cfg    *config.Config
	api    TelematicsAPI
	states MembershipStore
	events EventLog
	leases LeaseStore
	holder string
	now    func() time.Time
}

func NewObserver(cfg *config.Config, api TelematicsAPI, states MembershipStore, events EventLog, leases LeaseStore) *Observer {
	hostname, _ := os.Hostname()
	return &Observer{
		cfg:    cfg,
		api:    api,
		states: states,
		events: events,
		leases: leases,
		holder: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		now:    time.Now,
	}
}

// Run executes one heartbeat pass over all configured regions. Failures are
// isolated per region: a broken region is reported in its result and the pass
// moves on.
func (o *Observer) Run(ctx context.Context) []RegionResult {
	results := make([]RegionResult, 0, len(o.cfg.Regions))
	for _, region := range o.cfg.Regions {
		results = append(results, o.runRegion(ctx, region))
	}
	return results
}

func (o *Observer) runRegion(ctx context.Context, region string) RegionResult {
	log := logrus.WithField("region", region)

	sessionKey := o.cfg.SessionKey(region)
	if sessionKey == "" {
		log.Warn("Observer: no session key configured for region, skipping.")
		return RegionResult{Region: region, Error: "no session key configured"}
	}

	if o.leases != nil {
		ok, err := o.leases.Acquire(ctx, region, o.holder, o.cfg.LeaseTTL)
		if err != nil {
			log.WithError(err).Error("Observer: lease acquisition failed.")
			return RegionResult{Region: region, Error: "lease: " + err.Error()}
		}
		if !ok {
			log.Info("Observer: region lease held elsewhere, skipping pass.")
			return RegionResult{Region: region, Skipped: true}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.FetchTimeout)
	defer cancel()

	// Trackers and zones are independent, fetch them concurrently.
	var (
		wg          sync.WaitGroup
		trackers    []telematics.Tracker
		zones       []geo.Zone
		trackersErr error
		zonesErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		trackers, trackersErr = o.api.ListTrackers(ctx, sessionKey)
	}()
	go func() {
		defer wg.Done()
		zones, zonesErr = o.api.ListZones(ctx, sessionKey)
	}()
	wg.Wait()

	if trackersErr != nil {
		log.WithError(trackersErr).Error("Observer: tracker fetch failed.")
		return RegionResult{Region: region, Error: "trackers: " + trackersErr.Error()}
	}
	if zonesErr != nil {
		log.WithError(zonesErr).Error("Observer: zone fetch failed.")
		return RegionResult{Region: region, Error: "zones: " + zonesErr.Error()}
	}

	prior, err := o.loadPrior(ctx)
	if err != nil {
		log.WithError(err).Error("Observer: membership snapshot load failed.")
		return RegionResult{Region: region, Error: "state load: " + err.Error()}
	}

	current := CurrentMembership(zones, trackers)
	result := Detect(current, prior, o.now())

	// Events first, state second: a crash between the two leaves the log ahead
	// of the store, which a later pass cannot misread as a fresh crossing.
	if len(result.Events) > 0 {
		if err := o.events.Append(ctx, result.Events); err != nil {
			log.WithError(err).Error("Observer: event append failed, failing region pass.")
			return RegionResult{Region: region, Error: "event append: " + err.Error()}
		}
		log.WithField("count", len(result.Events)).Info("Observer: logged transition events.")
	}
	if len(result.StateUpdates) > 0 {
		if err := o.states.UpsertBatch(ctx, result.StateUpdates); err != nil {
			log.WithError(err).Error("Observer: membership upsert failed, failing region pass.")
			return RegionResult{Region: region, Error: "state upsert: " + err.Error()}
		}
	}

	log.WithFields(logrus.Fields{
		"trackers": len(trackers),
		"zones":    len(zones),
		"events":   len(result.Events),
	}).Info("Observer: region pass complete.")

	return RegionResult{Region: region, Processed: len(trackers), Events: len(result.Events)}
}

func (o *Observer) loadPrior(ctx context.Context) (map[PairKey]bool, error) {
	states, err := o.states.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	prior := make(map[PairKey]bool, len(states))
	for _, s := range states {
		prior[PairKey{ZoneID: s.ZoneID, VehicleID: s.VehicleID}] = s.IsInside
	}
	return prior, nil
}

// CurrentMembership classifies every tracker against every zone. Trackers
// without a position fix are skipped entirely; malformed zones classify as
// outside per the classifier's fail-closed contract, so one bad zone never
// blocks the rest of the pass.
func CurrentMembership(zones []geo.Zone, trackers []telematics.Tracker) map[PairKey]bool {
	current := make(map[PairKey]bool, len(zones)*len(trackers))
	for _, zone := range zones {
		for i := range trackers {
			t := &trackers[i]
			point, ok := t.Coordinates()
			if !ok {
				continue
			}
			key := PairKey{ZoneID: zone.ID, VehicleID: t.VehicleID()}
			current[key] = geo.IsInside(point, zone)
		}
	}
	return current
}
