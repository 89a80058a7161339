package routes

import (
	"fleetwatch/internal/controllers"
	"fleetwatch/internal/middleware"

	"github.com/gin-gonic/gin"
)

func ShareRoutes(r *gin.Engine) {
	share := r.Group("/share")
	{
		// Public endpoints driven by the opaque token itself.
		share.GET("/resolve", controllers.ResolveShare)
		share.GET("/live", controllers.ShareLive)

		// Issuing and revoking links stays operator-only.
		share.POST("/token", middleware.RequireAuth(), controllers.IssueShareToken)
		share.DELETE("/token/:token", middleware.RequireAuth(), controllers.RevokeShare)
	}
}
