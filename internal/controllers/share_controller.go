package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fleetwatch/internal/geo"
	"fleetwatch/internal/share"
	"fleetwatch/internal/telematics"
)

type issueShareInput struct {
	ZoneID int    `json:"zone_id" binding:"required"`
	Region string `json:"region" binding:"required"`
}

// IssueShareToken mints (or returns the existing) public token for one zone.
// The zone's current metadata is cached alongside the token so shared views
// can render before the first provider round trip.
func IssueShareToken(c *gin.Context) {
	var input issueShareInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing zone_id or region"})
		return
	}

	sessionKey := cfg.SessionKey(input.Region)
	if sessionKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown region"})
		return
	}

	var metadata []byte
	if zone, ok := findZone(c, sessionKey, input.ZoneID); ok {
		metadata, _ = json.Marshal(zone)
	}

	token, err := shares.IssueOrGet(c.Request.Context(), input.ZoneID, input.Region, metadata)
	if err != nil {
		logrus.WithError(err).WithField("zone_id", input.ZoneID).Error("Share token issuance failed.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create share token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ResolveShare answers what a share token points at: the cached zone
// metadata, its region and the currently known vehicle ids for the region.
func ResolveShare(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token parameter"})
		return
	}

	resolved, err := shares.Resolve(c.Request.Context(), token)
	if errors.Is(err, share.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "This share link does not exist or has been revoked."})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("Share token resolution failed.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve share token"})
		return
	}

	var zone geo.Zone
	if len(resolved.ZoneData) > 0 {
		if err := json.Unmarshal(resolved.ZoneData, &zone); err != nil {
			logrus.WithError(err).WithField("zone_id", resolved.ZoneID).Warn("Cached zone metadata unreadable, refetching.")
		}
	}
	sessionKey := cfg.SessionKey(resolved.Region)
	if zone.ID == 0 && sessionKey != "" {
		if fetched, ok := findZone(c, sessionKey, resolved.ZoneID); ok {
			zone = fetched
		}
	}

	vehicleIDs := []int{}
	if sessionKey != "" {
		if trackers, err := tele.ListTrackers(c.Request.Context(), sessionKey); err == nil {
			for i := range trackers {
				vehicleIDs = append(vehicleIDs, trackers[i].VehicleID())
			}
		} else {
			logrus.WithError(err).Warn("Failed to pre-fetch trackers for shared view.")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"zone":        zone,
		"region":      resolved.Region,
		"tracker_ids": vehicleIDs,
	})
}

type liveVehicle struct {
	ID         int     `json:"id"`
	Label      string  `json:"label"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Speed      float64 `json:"speed"`
	Heading    float64 `json:"heading"`
	Status     string  `json:"status"`
	Ignition   *bool   `json:"ignition,omitempty"`
	LastUpdate string  `json:"last_update,omitempty"`
}

// ShareLive answers "which vehicles are inside this zone right now" for an
// unauthenticated shared view: resolve token, fetch zone + positions, classify.
func ShareLive(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	resolved, err := shares.Resolve(c.Request.Context(), token)
	if errors.Is(err, share.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid token"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("Share token resolution failed.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve share token"})
		return
	}

	sessionKey := cfg.SessionKey(resolved.Region)
	if sessionKey == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Region not configured"})
		return
	}

	zone, ok := findZone(c, sessionKey, resolved.ZoneID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Zone not found"})
		return
	}

	trackers, err := tele.ListTrackers(c.Request.Context(), sessionKey)
	if err != nil {
		logrus.WithError(err).Error("Tracker fetch for shared view failed.")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch live positions"})
		return
	}

	inside := []liveVehicle{}
	for i := range trackers {
		t := &trackers[i]
		point, ok := t.Coordinates()
		if !ok || !geo.IsInside(point, zone) {
			continue
		}
		lastUpdate := t.LastUpdate
		if parsed, err := telematics.ParseProviderTime(lastUpdate, cfg.ProviderUTCOffset); err == nil {
			lastUpdate = parsed.UTC().Format(time.RFC3339)
		}
		inside = append(inside, liveVehicle{
			ID:         t.VehicleID(),
			Label:      t.Label,
			Lat:        point.Lat,
			Lng:        point.Lng,
			Speed:      t.Speed(),
			Heading:    t.Heading(),
			Status:     t.Status(),
			Ignition:   t.Ignition,
			LastUpdate: lastUpdate,
		})
	}

	c.JSON(http.StatusOK, gin.H{"trackers": inside})
}

// RevokeShare deletes a share token so the public link stops working.
func RevokeShare(c *gin.Context) {
	token := c.Param("token")

	err := shares.Revoke(c.Request.Context(), token)
	if errors.Is(err, share.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown share token"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("Share token revocation failed.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke share token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"revoked": true})
}

// findZone fetches the provider's zone list and picks one by id.
func findZone(c *gin.Context, sessionKey string, zoneID int) (geo.Zone, bool) {
	zones, err := tele.ListZones(c.Request.Context(), sessionKey)
	if err != nil {
		logrus.WithError(err).Warn("Zone list fetch failed.")
		return geo.Zone{}, false
	}
	for _, zone := range zones {
		if zone.ID == zoneID {
			return zone, true
		}
	}
	return geo.Zone{}, false
}
