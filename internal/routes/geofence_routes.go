package routes

import (
	"fleetwatch/internal/controllers"

	"github.com/gin-gonic/gin"
)

func GeofenceRoutes(r *gin.Engine) {
	geofence := r.Group("/geofence")
	{
		geofence.GET("/events", controllers.ListZoneEvents)
	}
}
