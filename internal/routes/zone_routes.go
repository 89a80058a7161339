package routes

import (
	"fleetwatch/internal/controllers"
	"fleetwatch/internal/middleware"

	"github.com/gin-gonic/gin"
)

func ZoneRoutes(r *gin.Engine) {
	zone := r.Group("/zones")
	zone.Use(middleware.RequireAuth())
	{
		zone.GET("/", controllers.ListZones)
		zone.POST("/", controllers.CreateZone)
		zone.DELETE("/:id", middleware.RequireAuthWithRole("admin"), controllers.DeleteZone)
	}
}
