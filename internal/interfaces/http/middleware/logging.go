package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/shared/logger"
)

// Logger emits one structured log line per request, leveled by status
// class. Gin's own writer is discarded at server setup; this is the only
// request log.
func Logger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Errorw("request", args...)
		case status >= 400:
			log.Warnw("request", args...)
		default:
			log.Debugw("request", args...)
		}
	}
}
