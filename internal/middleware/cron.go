package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequireCronSecret guards the heartbeat trigger. When no secret is
// configured the endpoint stays open, matching local development usage.
func RequireCronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		if c.GetHeader("Authorization") != "Bearer "+secret {
			logrus.WithField("remote", c.ClientIP()).Warn("Heartbeat trigger rejected: bad cron secret.")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
