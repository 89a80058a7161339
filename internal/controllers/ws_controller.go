package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"fleetwatch/internal/live"
	"fleetwatch/internal/middleware"
	"fleetwatch/internal/share"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // shared views connect from arbitrary origins
	},
}

// HandleOccupancySocket streams a region's live zone-occupancy snapshots to an
// authenticated dashboard client. Auth rides on a JWT query parameter since
// browsers cannot set headers on WebSocket upgrades.
func HandleOccupancySocket(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication token"})
		return
	}
	if token, err := middleware.ValidateToken(tokenString); err != nil || !token.Valid {
		logrus.WithError(err).Warn("Occupancy socket rejected: invalid token.")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	region := c.Query("region")
	if cfg.SessionKey(region) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown region"})
		return
	}

	serveSocket(c, region)
}

// HandleShareSocket streams one zone's occupancy to an unauthenticated shared
// viewer, scoped by the share token.
func HandleShareSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	resolved, err := shares.Resolve(c.Request.Context(), token)
	if errors.Is(err, share.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid token"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("Share socket: token resolution failed.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve token"})
		return
	}

	serveSocket(c, live.ZoneKey(resolved.ZoneID))
}

// serveSocket upgrades the connection, subscribes it to a hub key and drains
// client reads until the peer goes away.
func serveSocket(c *gin.Context, key string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	hub.Register(key, conn)
	defer hub.Unregister(key, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).WithField("key", key).Warn("Error reading from occupancy socket.")
			}
			return
		}
		// Subscribers only listen; inbound frames are ignored.
	}
}
