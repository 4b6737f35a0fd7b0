package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/apperr"
	"quickai-backend/internal/shared/telemetry"
)

// ErrorResponse is the failure envelope every route returns.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error sends a failure envelope with an explicit status and code.
func Error(c *gin.Context, status int, code, message string) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Info("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Message: message,
		Code:    code,
	})
}

// Fail converts err to the envelope. Errors outside the apperr taxonomy keep
// status 200 and expose their message, which is what clients have always seen.
func Fail(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		code := string(appErr.Kind)
		if appErr.Kind == apperr.KindMissingFields {
			code = string(apperr.KindValidation)
		}
		Error(c, appErr.Kind.Status(), code, appErr.Message)
		return
	}
	msg := "Unexpected server error"
	if err != nil {
		msg = err.Error()
	}
	Error(c, http.StatusOK, string(apperr.KindInternal), msg)
}
