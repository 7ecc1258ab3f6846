package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"praxia/internal/logger"
	"praxia/internal/uuid"
)

const requestIDKey = "requestID"

// RequestLogging assigns each request a time-ordered request id, echoes it in
// X-Request-ID, and logs method, path, status, latency, and client IP after
// the response. The same id lands in the audit record metadata. Server errors
// log at error level.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := uuid.New()
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		fields := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if c.Writer.Status() >= 500 {
			logger.Get().Errorw("request", fields...)
			return
		}
		logger.Get().Infow("request", fields...)
	}
}
