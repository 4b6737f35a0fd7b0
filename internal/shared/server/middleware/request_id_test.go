package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/telemetry"
)

func TestRequestIDPropagatesToContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	var fromCtx, fromGin string
	router.GET("/x", func(c *gin.Context) {
		fromCtx = telemetry.RequestID(c.Request.Context())
		fromGin = RequestIDFromContext(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "req-123")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if fromCtx != "req-123" || fromGin != "req-123" {
		t.Fatalf("expected request id to propagate, got ctx=%q gin=%q", fromCtx, fromGin)
	}
	if resp.Header().Get("X-Request-Id") != "req-123" {
		t.Fatalf("expected response header, got %q", resp.Header().Get("X-Request-Id"))
	}
}

func TestRequestIDReplacesOversizedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", strings.Repeat("a", 200))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if got := resp.Header().Get("X-Request-Id"); len(got) != 36 {
		t.Fatalf("expected generated uuid, got %q", got)
	}
}
