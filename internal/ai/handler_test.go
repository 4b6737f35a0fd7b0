package ai

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/llm"
	"quickai-backend/internal/shared/auth"
)

type responseBody struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	Code            string `json:"code"`
	Content         string `json:"content"`
	EnhancedContent string `json:"enhancedContent"`
}

func newRouter(t *testing.T, f *fixture, p auth.Principal) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set("userId", p.UserID)
		c.Set("principal", p)
		c.Next()
	})
	NewHandler(f.svc).RegisterRoutes(api)
	return r
}

func serve(t *testing.T, r *gin.Engine, req *http.Request) (int, responseBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var body responseBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec.Code, body
}

func jsonRequest(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestGenerateArticleRoute(t *testing.T) {
	f := newFixture(t)
	r := newRouter(t, f, f.principal(t, auth.PlanFree, 0))

	status, body := serve(t, r, jsonRequest("/api/ai/generate-article", `{"prompt":"Go","length":500}`))
	if status != http.StatusOK || !body.Success || body.Content != "generated" {
		t.Fatalf("unexpected response %d %+v", status, body)
	}
	if f.completer.calls[0].MaxTokens != 500 {
		t.Fatalf("expected max tokens 500, got %d", f.completer.calls[0].MaxTokens)
	}
}

func TestGenerateArticleMissingPrompt(t *testing.T) {
	f := newFixture(t)
	r := newRouter(t, f, f.principal(t, auth.PlanFree, 0))

	status, body := serve(t, r, jsonRequest("/api/ai/generate-article", `{"length":500}`))
	if status != http.StatusBadRequest || body.Message != "Missing required fields" {
		t.Fatalf("unexpected response %d %+v", status, body)
	}
}

func TestGenerateImageRouteNeedsPremium(t *testing.T) {
	f := newFixture(t)
	r := newRouter(t, f, f.principal(t, auth.PlanFree, 0))

	status, body := serve(t, r, jsonRequest("/api/ai/generate-image", `{"prompt":"a cat"}`))
	if status != http.StatusOK || body.Success || body.Code != "plan_required" {
		t.Fatalf("unexpected response %d %+v", status, body)
	}
	if body.Message != "This feature is only available for premium subscriptions." {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestGenerateImageEmptyPromptGatesFirst(t *testing.T) {
	f := newFixture(t)

	free := newRouter(t, f, f.principal(t, auth.PlanFree, 0))
	_, body := serve(t, free, jsonRequest("/api/ai/generate-image", `{"prompt":""}`))
	if body.Success || body.Code != "plan_required" {
		t.Fatalf("expected plan_required for free user, got %+v", body)
	}

	premium := newRouter(t, f, f.principal(t, auth.PlanPremium, 0))
	status, body := serve(t, premium, jsonRequest("/api/ai/generate-image", `{"prompt":""}`))
	if status != http.StatusBadRequest || body.Message != "Missing required fields" {
		t.Fatalf("unexpected response %d %+v", status, body)
	}
}

func TestEmptyCompletionReturns503(t *testing.T) {
	f := newFixture(t)
	f.completer.reply = ""
	f.completer.err = llm.ErrEmptyCompletion
	r := newRouter(t, f, f.principal(t, auth.PlanFree, 0))

	status, body := serve(t, r, jsonRequest("/api/ai/generate-article", `{"prompt":"Go","length":500}`))
	if status != http.StatusServiceUnavailable || body.Success {
		t.Fatalf("unexpected response %d %+v", status, body)
	}
	if body.Message != "Unable to generate article at the moment.! Please try again shortly." {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestResumeReviewRoute(t *testing.T) {
	f := newFixture(t)
	r := newRouter(t, f, f.principal(t, auth.PlanPremium, 0))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("resume", "cv.txt")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = part.Write([]byte("Go engineer"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/ai/resume-review", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	status, body := serve(t, r, req)
	if status != http.StatusOK || !body.Success || body.Content != "generated" {
		t.Fatalf("unexpected response %d %+v", status, body)
	}
}

func TestResumeReviewRouteMissingFile(t *testing.T) {
	f := newFixture(t)
	r := newRouter(t, f, f.principal(t, auth.PlanPremium, 0))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("note", "none")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/ai/resume-review", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	_, body := serve(t, r, req)
	if body.Success || body.Message != "No resume file uploaded." {
		t.Fatalf("unexpected response %+v", body)
	}
}

func TestEnhanceRoutes(t *testing.T) {
	f := newFixture(t)
	r := newRouter(t, f, f.principal(t, auth.PlanFree, 0))

	status, body := serve(t, r, jsonRequest("/api/ai/enhance-job-desc", `{"userContent":"Built APIs"}`))
	if status != http.StatusOK || body.EnhancedContent != "generated" {
		t.Fatalf("unexpected response %d %+v", status, body)
	}

	status, body = serve(t, r, jsonRequest("/api/ai/enhance-pro-sum", `{}`))
	if status != http.StatusBadRequest || body.Message != "Missing required fields" {
		t.Fatalf("unexpected response %d %+v", status, body)
	}
}
