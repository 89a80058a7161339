package geofence

import (
	"testing"
	"time"

	"fleetwatch/internal/geo"
	"fleetwatch/internal/models"
	"fleetwatch/internal/telematics"
)

var passTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func applyUpdates(prior map[PairKey]bool, updates []models.MembershipState) {
	for _, u := range updates {
		prior[PairKey{ZoneID: u.ZoneID, VehicleID: u.VehicleID}] = u.IsInside
	}
}

func TestDetect_FirstSightingOutside(t *testing.T) {
	// Scenario A: never observed, currently outside -> baseline false, no event
	key := PairKey{ZoneID: 1, VehicleID: 100}
	res := Detect(map[PairKey]bool{key: false}, map[PairKey]bool{}, passTime)

	if len(res.Events) != 0 {
		t.Fatalf("expected 0 events, got %d", len(res.Events))
	}
	if len(res.StateUpdates) != 1 {
		t.Fatalf("expected 1 state update, got %d", len(res.StateUpdates))
	}
	u := res.StateUpdates[0]
	if u.ZoneID != 1 || u.VehicleID != 100 || u.IsInside {
		t.Errorf("expected baseline false for (1,100), got %+v", u)
	}
	if !u.LastUpdated.Equal(passTime) {
		t.Errorf("expected last_updated %v, got %v", passTime, u.LastUpdated)
	}
}

func TestDetect_FirstSightingInside(t *testing.T) {
	// First-ever sighting while inside establishes baseline true silently;
	// the vehicle was there before we started watching, it did not enter.
	key := PairKey{ZoneID: 1, VehicleID: 100}
	res := Detect(map[PairKey]bool{key: true}, map[PairKey]bool{}, passTime)

	if len(res.Events) != 0 {
		t.Fatalf("expected 0 events, got %d", len(res.Events))
	}
	if len(res.StateUpdates) != 1 || !res.StateUpdates[0].IsInside {
		t.Fatalf("expected baseline true state update, got %+v", res.StateUpdates)
	}
}

func TestDetect_Entry(t *testing.T) {
	// Scenario B
	key := PairKey{ZoneID: 1, VehicleID: 100}
	res := Detect(map[PairKey]bool{key: true}, map[PairKey]bool{key: false}, passTime)

	if len(res.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(res.Events))
	}
	ev := res.Events[0]
	if ev.EventType != models.EventEntry || ev.ZoneID != 1 || ev.VehicleID != 100 {
		t.Errorf("expected ENTRY(1,100), got %+v", ev)
	}
	if len(res.StateUpdates) != 1 || !res.StateUpdates[0].IsInside {
		t.Errorf("expected state update to inside, got %+v", res.StateUpdates)
	}
}

func TestDetect_Exit(t *testing.T) {
	// Scenario C
	key := PairKey{ZoneID: 1, VehicleID: 100}
	res := Detect(map[PairKey]bool{key: false}, map[PairKey]bool{key: true}, passTime)

	if len(res.Events) != 1 || res.Events[0].EventType != models.EventExit {
		t.Fatalf("expected single EXIT, got %+v", res.Events)
	}
	if len(res.StateUpdates) != 1 || res.StateUpdates[0].IsInside {
		t.Errorf("expected state update to outside, got %+v", res.StateUpdates)
	}
}

func TestDetect_NoChangeNoChurn(t *testing.T) {
	// Scenario D: identical snapshots produce nothing at all
	key := PairKey{ZoneID: 1, VehicleID: 100}
	for _, inside := range []bool{true, false} {
		res := Detect(map[PairKey]bool{key: inside}, map[PairKey]bool{key: inside}, passTime)
		if len(res.Events) != 0 || len(res.StateUpdates) != 0 {
			t.Errorf("inside=%v: expected no events and no updates, got %+v", inside, res)
		}
	}
}

func TestDetect_Idempotent(t *testing.T) {
	key := PairKey{ZoneID: 1, VehicleID: 100}
	current := map[PairKey]bool{key: true}
	prior := map[PairKey]bool{key: false}

	first := Detect(current, prior, passTime)
	if len(first.Events) != 1 {
		t.Fatalf("expected 1 event on first pass, got %d", len(first.Events))
	}

	applyUpdates(prior, first.StateUpdates)
	second := Detect(current, prior, passTime.Add(time.Minute))
	if len(second.Events) != 0 || len(second.StateUpdates) != 0 {
		t.Errorf("second identical pass should be a no-op, got %+v", second)
	}
}

func TestDetect_AlternationAcrossPasses(t *testing.T) {
	key := PairKey{ZoneID: 9, VehicleID: 55}
	prior := map[PairKey]bool{}
	var log []models.TransitionEvent

	sequence := []bool{false, true, true, false, false, true, false}
	now := passTime
	for _, inside := range sequence {
		res := Detect(map[PairKey]bool{key: inside}, prior, now)
		log = append(log, res.Events...)
		applyUpdates(prior, res.StateUpdates)
		now = now.Add(time.Minute)
	}

	want := []string{models.EventEntry, models.EventExit, models.EventEntry, models.EventExit}
	if len(log) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(log))
	}
	for i, ev := range log {
		if ev.EventType != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], ev.EventType)
		}
	}
}

func TestDetect_IndependentPairs(t *testing.T) {
	entering := PairKey{ZoneID: 1, VehicleID: 100}
	leaving := PairKey{ZoneID: 2, VehicleID: 200}
	steady := PairKey{ZoneID: 1, VehicleID: 200}

	current := map[PairKey]bool{entering: true, leaving: false, steady: true}
	prior := map[PairKey]bool{entering: false, leaving: true, steady: true}

	res := Detect(current, prior, passTime)
	if len(res.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(res.Events))
	}
	types := map[PairKey]string{}
	for _, ev := range res.Events {
		types[PairKey{ZoneID: ev.ZoneID, VehicleID: ev.VehicleID}] = ev.EventType
	}
	if types[entering] != models.EventEntry {
		t.Errorf("expected ENTRY for %+v", entering)
	}
	if types[leaving] != models.EventExit {
		t.Errorf("expected EXIT for %+v", leaving)
	}
}

func TestCurrentMembership_MalformedZoneFailsClosed(t *testing.T) {
	good := geo.Zone{ID: 1, Kind: geo.KindCircle, Center: &geo.Point{Lat: 0, Lng: 0}, Radius: 500}
	broken := geo.Zone{ID: 2, Kind: geo.KindPolygon, Points: []geo.Point{{Lat: 0, Lng: 0}}}

	trackers := []telematics.Tracker{
		{ID: 100, GPS: &telematics.GPS{Location: geo.Point{Lat: 0.001, Lng: 0}}},
	}

	current := CurrentMembership([]geo.Zone{good, broken}, trackers)
	if len(current) != 2 {
		t.Fatalf("expected both zones evaluated, got %d pairs", len(current))
	}
	if !current[PairKey{ZoneID: 1, VehicleID: 100}] {
		t.Error("vehicle should be inside the valid circle")
	}
	if current[PairKey{ZoneID: 2, VehicleID: 100}] {
		t.Error("malformed zone must classify as outside")
	}
}

func TestCurrentMembership_SkipsTrackersWithoutFix(t *testing.T) {
	zone := geo.Zone{ID: 1, Kind: geo.KindCircle, Center: &geo.Point{Lat: 0, Lng: 0}, Radius: 500}
	trackers := []telematics.Tracker{
		{ID: 100}, // no position at all
		{ID: 200, GPS: &telematics.GPS{Location: geo.Point{Lat: 0.001, Lng: 0}}},
	}

	current := CurrentMembership([]geo.Zone{zone}, trackers)
	if _, ok := current[PairKey{ZoneID: 1, VehicleID: 100}]; ok {
		t.Error("tracker without a fix should not produce a membership entry")
	}
	if !current[PairKey{ZoneID: 1, VehicleID: 200}] {
		t.Error("tracker with a fix should be classified")
	}
}
