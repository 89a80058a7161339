package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// subscriberCount reads the hub's registration table for test synchronization.
func subscriberCount(h *Hub, key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[key])
}

func waitForSubscribers(t *testing.T, h *Hub, key string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for subscriberCount(h, key) != want {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber count for %q never reached %d", key, want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func dialHub(t *testing.T, hub *Hub, key string) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(key, conn)
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial failed: %v", err)
	}
	return client, func() {
		client.Close()
		srv.Close()
	}
}

func TestHub_RapidPublishesArriveIntactAndOrdered(t *testing.T) {
	hub := NewHub()
	key := ZoneKey(1)

	client, done := dialHub(t, hub, key)
	defer done()
	waitForSubscribers(t, hub, key, 1)

	// A burst like the poller produces: several snapshots back to back with
	// no pause between publishes.
	const n = 20
	for i := 0; i < n; i++ {
		hub.Publish(Message{Key: key, Payload: map[string]int{"seq": i}})
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < n; i++ {
		var got map[string]int
		if err := client.ReadJSON(&got); err != nil {
			t.Fatalf("read %d failed: %v", i, err)
		}
		if got["seq"] != i {
			t.Fatalf("snapshot %d arrived out of order: %+v", i, got)
		}
	}
}

func TestHub_KeyedDelivery(t *testing.T) {
	hub := NewHub()

	zoneClient, zoneDone := dialHub(t, hub, ZoneKey(1))
	defer zoneDone()
	regionClient, regionDone := dialHub(t, hub, "TZ")
	defer regionDone()
	waitForSubscribers(t, hub, ZoneKey(1), 1)
	waitForSubscribers(t, hub, "TZ", 1)

	hub.Publish(Message{Key: ZoneKey(1), Payload: map[string]string{"for": "zone"}})
	hub.Publish(Message{Key: "TZ", Payload: map[string]string{"for": "region"}})

	zoneClient.SetReadDeadline(time.Now().Add(2 * time.Second))
	var zoneMsg map[string]string
	if err := zoneClient.ReadJSON(&zoneMsg); err != nil {
		t.Fatalf("zone client read failed: %v", err)
	}
	if zoneMsg["for"] != "zone" {
		t.Errorf("zone client received the wrong message: %+v", zoneMsg)
	}

	regionClient.SetReadDeadline(time.Now().Add(2 * time.Second))
	var regionMsg map[string]string
	if err := regionClient.ReadJSON(&regionMsg); err != nil {
		t.Fatalf("region client read failed: %v", err)
	}
	if regionMsg["for"] != "region" {
		t.Errorf("region client received the wrong message: %+v", regionMsg)
	}
}

func TestHub_DroppedConnectionIsUnregistered(t *testing.T) {
	hub := NewHub()
	key := ZoneKey(2)

	client, done := dialHub(t, hub, key)
	defer done()
	waitForSubscribers(t, hub, key, 1)

	client.Close()

	// The broken connection surfaces on write; keep publishing until the hub
	// notices and drops it.
	deadline := time.Now().Add(3 * time.Second)
	for subscriberCount(hub, key) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("closed connection was never unregistered")
		}
		hub.Publish(Message{Key: key, Payload: map[string]int{"seq": 0}})
		time.Sleep(10 * time.Millisecond)
	}
}
