package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bell24h/supplierrisk/pkg/errors"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

// Logging logs every processed request. An error attached by a handler is logged at
// error level only when it is a server-side fault.
func Logging(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logger.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"route":      c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}

		if last := c.Errors.Last(); last != nil && errors.ShouldLogError(last.Err) {
			log.Error(c.Request.Context(), "Request failed", last.Err, fields)
			return
		}
		log.Info(c.Request.Context(), "Request processed", fields)
	}
}
