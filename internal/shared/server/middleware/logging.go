package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/metrics"
	"quickai-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request and counts it by route.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if p, ok := PrincipalFromContext(c); ok {
			fields["plan"] = p.Plan
		}
		if op := c.GetString("operation"); op != "" {
			fields["operation"] = op
		}
		telemetry.Info("request.complete", fields)
		metrics.ObserveRequest(c.Request.Method, c.FullPath(), status)
	}
}
