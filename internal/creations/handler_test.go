package creations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestListCreationsScopedToUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := NewMemoryRepo()
	_, _ = repo.Append(context.Background(), Creation{UserID: "user-1", Prompt: "a", Content: "b", Type: TypeArticle})
	_, _ = repo.Append(context.Background(), Creation{UserID: "user-2", Prompt: "c", Content: "d", Type: TypeArticle})

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	NewHandler(repo).RegisterRoutes(router.Group("/api"))

	req := httptest.NewRequest(http.MethodGet, "/api/user/get-user-creations", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body struct {
		Success   bool       `json:"success"`
		Creations []Creation `json:"creations"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || len(body.Creations) != 1 || body.Creations[0].UserID != "user-1" {
		t.Fatalf("unexpected body %+v", body)
	}
}
