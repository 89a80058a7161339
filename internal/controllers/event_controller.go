package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListZoneEvents returns a zone's transition events inside a trailing time
// window, newest first.
func ListZoneEvents(c *gin.Context) {
	zoneID, err := strconv.Atoi(c.Query("zoneId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid zoneId"})
		return
	}

	hours := 24
	if raw := c.Query("hours"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			hours = parsed
		}
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	events, err := eventLog.QueryByZone(c.Request.Context(), zoneID, since)
	if err != nil {
		logrus.WithError(err).WithField("zone_id", zoneID).Error("Failed to query transition events.")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
