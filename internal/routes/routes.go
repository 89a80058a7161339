package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"fleetwatch/internal/config"
	"fleetwatch/internal/controllers"
)

func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()

	// Recovery and request logging middleware
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	r.GET("/healthz", controllers.Healthz)

	AuthRoutes(r)
	ObserverRoutes(r, cfg)
	GeofenceRoutes(r)
	ShareRoutes(r)
	ZoneRoutes(r)
	WebSocketRoutes(r)

	return r
}
