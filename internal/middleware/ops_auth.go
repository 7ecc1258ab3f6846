package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// OpsAuthMiddleware creates a Gin middleware that validates the X-Ops-Key
// header against the configured operator API key. It guards the internal
// audit endpoints used by monitoring tooling that has no user session.
func OpsAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				gin.H{"error": gin.H{"code": "OPS_NOT_CONFIGURED", "message": "Operator endpoints are not configured"}})
			return
		}
		key := c.GetHeader("X-Ops-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": gin.H{"code": "INVALID_OPS_KEY", "message": "Invalid or missing operator key"}})
			return
		}
		c.Next()
	}
}
