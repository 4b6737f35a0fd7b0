package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/apperr"
	"quickai-backend/internal/shared/server/respond"
	"quickai-backend/internal/shared/telemetry"
)

// Recovery recovers from panics and returns the failure envelope with a 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.Error("panic", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      rec,
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				respond.Error(c, http.StatusInternalServerError, string(apperr.KindInternal), "Unexpected server error")
			}
		}()
		c.Next()
	}
}
