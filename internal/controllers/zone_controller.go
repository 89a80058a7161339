package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fleetwatch/internal/geo"
)

// ListZones proxies the provider's zone list for one region.
func ListZones(c *gin.Context) {
	region := c.Query("region")
	sessionKey := cfg.SessionKey(region)
	if sessionKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown region"})
		return
	}

	zones, err := tele.ListZones(c.Request.Context(), sessionKey)
	if err != nil {
		logrus.WithError(err).WithField("region", region).Error("Zone list fetch failed.")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch zones"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"zones": zones})
}

type createZoneInput struct {
	Region string      `json:"region" binding:"required"`
	Label  string      `json:"label" binding:"required"`
	Type   string      `json:"type" binding:"required"`
	Center *geo.Point  `json:"center,omitempty"`
	Radius float64     `json:"radius,omitempty"`
	Points []geo.Point `json:"points,omitempty"`
	Color  string      `json:"color,omitempty"`
}

// CreateZone creates a zone on the provider for the drawing UI.
func CreateZone(c *gin.Context) {
	var input createZoneInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	sessionKey := cfg.SessionKey(input.Region)
	if sessionKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown region"})
		return
	}

	zone := geo.Zone{
		Label:  input.Label,
		Kind:   geo.ShapeKind(input.Type),
		Center: input.Center,
		Radius: input.Radius,
		Points: input.Points,
		Color:  input.Color,
	}

	id, err := tele.CreateZone(c.Request.Context(), sessionKey, zone)
	if err != nil {
		logrus.WithError(err).WithField("label", input.Label).Error("Zone creation failed.")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create zone"})
		return
	}

	logrus.WithFields(logrus.Fields{
		"zone_id": id,
		"region":  input.Region,
		"type":    input.Type,
	}).Info("Zone created on telematics provider.")
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// DeleteZone removes a zone from the provider.
func DeleteZone(c *gin.Context) {
	zoneID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid zone id"})
		return
	}

	region := c.Query("region")
	sessionKey := cfg.SessionKey(region)
	if sessionKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown region"})
		return
	}

	if err := tele.DeleteZone(c.Request.Context(), sessionKey, zoneID); err != nil {
		logrus.WithError(err).WithField("zone_id", zoneID).Error("Zone deletion failed.")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to delete zone"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
