package live

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Message is one occupancy payload addressed to a subscription key. Keys are
// either a region code (full dashboard feed) or "zone:<id>" (shared view).
type Message struct {
	Key     string
	Payload interface{}
}

// Hub fans occupancy snapshots out to connected WebSocket clients, grouped by
// subscription key.
type Hub struct {
	clients   map[string]map[*websocket.Conn]bool
	broadcast chan Message
	mu        sync.Mutex
}

// NewHub creates a Hub and starts its broadcast goroutine.
func NewHub() *Hub {
	hub := &Hub{
		clients:   make(map[string]map[*websocket.Conn]bool),
		broadcast: make(chan Message, 100),
	}
	go hub.run()
	return hub
}

// run drains the broadcast channel. Writes are sequential: this goroutine is
// the only writer on every registered connection, which is the concurrency
// contract gorilla/websocket requires.
func (h *Hub) run() {
	for msg := range h.broadcast {
		h.mu.Lock()
		conns, ok := h.clients[msg.Key]
		if !ok {
			h.mu.Unlock()
			continue
		}
		for conn := range conns {
			if err := conn.WriteJSON(msg.Payload); err != nil {
				if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
					logrus.WithFields(logrus.Fields{
						"key":      msg.Key,
						"conn_ptr": fmt.Sprintf("%p", conn),
					}).Info("Client connection closed during broadcast, unregistering.")
				} else {
					logrus.WithError(err).WithField("key", msg.Key).Warn("Failed to send occupancy snapshot, dropping client.")
				}
				conn.Close()
				delete(conns, conn)
			}
		}
		if len(conns) == 0 {
			delete(h.clients, msg.Key)
		}
		h.mu.Unlock()
	}
}

// Register subscribes a connection to a key.
func (h *Hub) Register(key string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[key]; !ok {
		h.clients[key] = make(map[*websocket.Conn]bool)
	}
	h.clients[key][conn] = true
	logrus.WithFields(logrus.Fields{
		"key":      key,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Client registered with occupancy hub.")
}

// Unregister drops a connection from a key.
func (h *Hub) Unregister(key string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[key]; ok {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(h.clients, key)
		}
	}
	logrus.WithFields(logrus.Fields{
		"key":      key,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Client unregistered from occupancy hub.")
}

// Publish queues a message for broadcast, dropping it when the channel is
// full rather than blocking the poller.
func (h *Hub) Publish(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		logrus.Warn("Occupancy broadcast channel full, dropping snapshot.")
	}
}

// ZoneKey is the subscription key for one zone's shared view.
func ZoneKey(zoneID int) string {
	return fmt.Sprintf("zone:%d", zoneID)
}
