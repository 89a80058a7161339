package routes

import (
	"fleetwatch/internal/controllers"

	"github.com/gin-gonic/gin"
)

func WebSocketRoutes(r *gin.Engine) {
	ws := r.Group("/ws")
	{
		ws.GET("/occupancy", controllers.HandleOccupancySocket)
		ws.GET("/share", controllers.HandleShareSocket)
	}
}
