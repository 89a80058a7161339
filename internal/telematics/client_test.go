package telematics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleetwatch/internal/geo"
)

func newTestServer(t *testing.T, path, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("hash") == "" {
			t.Error("expected session key in hash parameter")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func TestListTrackers(t *testing.T) {
	srv := newTestServer(t, "/tracker/list", `{
		"success": true,
		"list": [
			{
				"id": 101,
				"label": "Truck A",
				"source": {"id": 5},
				"gps": {"location": {"lat": -6.2, "lng": 39.1}, "speed": 42, "heading": 180},
				"movement_status": "moving",
				"last_update": "2025-06-01 12:00:00"
			},
			{
				"id": 0,
				"label": "Truck B",
				"source": {"id": 7},
				"last_position": {"lat": -6.3, "lng": 39.2, "speed": 0}
			}
		]
	}`)
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	trackers, err := client.ListTrackers(context.Background(), "sess")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trackers) != 2 {
		t.Fatalf("expected 2 trackers, got %d", len(trackers))
	}

	// logical tracker id wins over the hardware source id
	if id := trackers[0].VehicleID(); id != 101 {
		t.Errorf("expected vehicle id 101, got %d", id)
	}
	// source id is the fallback when the tracker id is absent
	if id := trackers[1].VehicleID(); id != 7 {
		t.Errorf("expected fallback vehicle id 7, got %d", id)
	}

	point, ok := trackers[0].Coordinates()
	if !ok || point.Lat != -6.2 || point.Lng != 39.1 {
		t.Errorf("unexpected coordinates %+v (ok=%v)", point, ok)
	}
	if trackers[0].Status() != "moving" {
		t.Errorf("expected provider status, got %s", trackers[0].Status())
	}

	// last_position fallback, status inferred from speed
	point, ok = trackers[1].Coordinates()
	if !ok || point.Lat != -6.3 {
		t.Errorf("expected last_position fallback, got %+v (ok=%v)", point, ok)
	}
	if trackers[1].Status() != "parked" {
		t.Errorf("expected inferred parked status, got %s", trackers[1].Status())
	}
}

func TestListZones_NormalizesSausage(t *testing.T) {
	srv := newTestServer(t, "/zone/list", `{
		"success": true,
		"list": [
			{"id": 1, "label": "Port", "type": "circle", "center": {"lat": -6.8, "lng": 39.3}, "radius": 900, "color": "#ff0000"},
			{"id": 2, "label": "Highway", "type": "sausage", "points": [{"lat": 0, "lng": 0}, {"lat": 0, "lng": 1}], "radius": 500},
			{"id": 3, "label": "Depot", "type": "polygon", "points": [{"lat": 0, "lng": 0}, {"lat": 0, "lng": 1}, {"lat": 1, "lng": 1}]}
		]
	}`)
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	zones, err := client.ListZones(context.Background(), "sess")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(zones) != 3 {
		t.Fatalf("expected 3 zones, got %d", len(zones))
	}

	if zones[0].Kind != geo.KindCircle || zones[0].Radius != 900 || zones[0].Center == nil {
		t.Errorf("unexpected circle zone %+v", zones[0])
	}
	if zones[1].Kind != geo.KindCorridor {
		t.Errorf(`provider "sausage" should map to corridor, got %s`, zones[1].Kind)
	}
	if zones[2].Kind != geo.KindPolygon || len(zones[2].Points) != 3 {
		t.Errorf("unexpected polygon zone %+v", zones[2])
	}
}

func TestCall_ProviderFailure(t *testing.T) {
	srv := newTestServer(t, "/tracker/list", `{"success": false}`)
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	if _, err := client.ListTrackers(context.Background(), "sess"); err == nil {
		t.Error("expected error on success=false envelope")
	}
}

func TestCall_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	if _, err := client.ListTrackers(context.Background(), "sess"); err == nil {
		t.Error("expected error on non-200 response")
	}
}

func TestParseProviderTime(t *testing.T) {
	// bare provider format interpreted at the account's fixed offset
	got, err := ParseProviderTime("2025-06-01 12:00:00", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// RFC3339 strings pass through untouched
	got, err = ParseProviderTime("2025-06-01T12:00:00Z", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("RFC3339 input should parse as-is, got %v", got)
	}
}
