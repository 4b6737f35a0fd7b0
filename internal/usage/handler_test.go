package usage

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/auth"
)

func newUsageRouter(h *Handler, p auth.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", p.UserID)
		c.Set("principal", p)
		c.Next()
	})
	api := router.Group("/api")
	h.RegisterRoutes(api)
	h.RegisterDevRoutes(api.Group("/dev"))
	return router
}

func TestGetUsageReturnsCounter(t *testing.T) {
	svc := NewService()
	p, _ := svc.Resolve(t.Context(), "user-1", auth.PlanFree)
	_, _, _ = svc.Increment(t.Context(), p)

	router := newUsageRouter(NewHandler(svc, nil), p)
	req := httptest.NewRequest(http.MethodGet, "/api/user/usage", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body struct {
		Success   bool   `json:"success"`
		Plan      string `json:"plan"`
		FreeUsage int    `json:"free_usage"`
		Limit     int    `json:"limit"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Plan != "free" || body.FreeUsage != 1 || body.Limit != DefaultFreeLimit {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestResetUsage(t *testing.T) {
	svc := NewService()
	p, _ := svc.Resolve(t.Context(), "user-1", auth.PlanFree)
	for i := 0; i < 3; i++ {
		_, _, _ = svc.Increment(t.Context(), p)
	}

	router := newUsageRouter(NewHandler(svc, nil), p)
	req := httptest.NewRequest(http.MethodPost, "/api/dev/usage/reset", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	acct, _ := svc.Get(t.Context(), "user-1")
	if acct.FreeUsage != 0 {
		t.Fatalf("expected reset counter, got %d", acct.FreeUsage)
	}
}

func TestMintTokenVerifies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokens("dev-secret")
	h := NewHandler(NewService(), tokens)
	router := gin.New()
	h.RegisterDevTokenRoute(router.Group("/api/dev"))

	req := httptest.NewRequest(http.MethodPost, "/api/dev/token", strings.NewReader(`{"userId":"user-9","plan":"premium"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	claims, err := tokens.Verify(body.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-9" || claims.Plan != auth.PlanPremium {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestMintTokenRequiresUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(), auth.NewTokens("dev-secret"))
	router := gin.New()
	h.RegisterDevTokenRoute(router.Group("/api/dev"))

	req := httptest.NewRequest(http.MethodPost, "/api/dev/token", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
