package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/auth"
	"quickai-backend/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	telemetry.Configure(&buf, "info")
	t.Cleanup(func() { telemetry.Configure(os.Stdout, "info") })

	router := gin.New()
	router.Use(RequestID(), func(c *gin.Context) {
		c.Set(userIDKey, "user_1")
		c.Set(principalKey, auth.Principal{UserID: "user_1", Plan: auth.PlanPremium})
		c.Next()
	}, Logging())
	router.POST("/api/ai/generate-article", func(c *gin.Context) {
		c.Set("operation", "generate-article")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-article", nil)
	req.Header.Set("X-Request-Id", "req-123")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) == 0 || lines[0] == "" {
		t.Fatalf("expected log output")
	}
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}

	required := []string{"ts", "level", "msg", "request_id", "user_id", "duration_ms", "status", "route", "plan"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["request_id"] != "req-123" {
		t.Fatalf("unexpected request_id: %v", payload["request_id"])
	}
	if payload["route"] != "/api/ai/generate-article" {
		t.Fatalf("unexpected route: %v", payload["route"])
	}
	if payload["plan"] != "premium" || payload["operation"] != "generate-article" {
		t.Fatalf("unexpected plan/operation: %v %v", payload["plan"], payload["operation"])
	}
}
