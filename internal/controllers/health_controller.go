package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetwatch/internal/config"
)

// Healthz reports process and database liveness.
func Healthz(c *gin.Context) {
	sqlDB, err := config.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
