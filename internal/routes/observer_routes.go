package routes

import (
	"fleetwatch/internal/config"
	"fleetwatch/internal/controllers"
	"fleetwatch/internal/middleware"

	"github.com/gin-gonic/gin"
)

func ObserverRoutes(r *gin.Engine, cfg *config.Config) {
	observer := r.Group("/observer")
	observer.Use(middleware.RequireCronSecret(cfg.CronSecret))
	{
		observer.GET("/heartbeat", controllers.TriggerHeartbeat)
	}
}
