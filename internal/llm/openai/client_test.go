package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quickai-backend/internal/llm"
)

func TestCompleteSendsSystemAndLimits(t *testing.T) {
	var got chatRequest
	var path, authz string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		path = r.URL.Path
		authz = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  An article.  "}}]}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", "gemini-2.0-flash", server.URL+"/v1beta/openai/")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	out, err := client.Complete(context.Background(), llm.Request{
		System:      "sys",
		Prompt:      "write",
		MaxTokens:   800,
		Temperature: llm.DefaultTemperature,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "An article." {
		t.Fatalf("unexpected content %q", out)
	}
	if path != "/v1beta/openai/chat/completions" {
		t.Fatalf("unexpected path %q", path)
	}
	if authz != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", authz)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "write" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
	if got.MaxTokens != 800 || got.Temperature == nil || *got.Temperature != llm.DefaultTemperature {
		t.Fatalf("unexpected limits: max=%d temp=%v", got.MaxTokens, got.Temperature)
	}
}

func TestCompleteEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"   "}}]}`))
	}))
	defer server.Close()

	client, _ := NewClient("k", "m", server.URL)
	if _, err := client.Complete(context.Background(), llm.Request{Prompt: "x"}); !errors.Is(err, llm.ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestCompleteSurfacesProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota","type":"rate_limit"}}`))
	}))
	defer server.Close()

	client, _ := NewClient("k", "m", server.URL)
	_, err := client.Complete(context.Background(), llm.Request{Prompt: "x"})
	if err == nil || errors.Is(err, llm.ErrEmptyCompletion) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestNewClientValidates(t *testing.T) {
	if _, err := NewClient("", "m", ""); err == nil {
		t.Fatalf("expected missing key error")
	}
	if _, err := NewClient("k", "", ""); err == nil {
		t.Fatalf("expected missing model error")
	}
	client, err := NewClient("k", "m", "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.endpoint != "https://api.openai.com/v1/chat/completions" {
		t.Fatalf("unexpected endpoint %q", client.endpoint)
	}
}

func TestNewClientTimeout(t *testing.T) {
	t.Setenv("OPENAI_TIMEOUT_SECONDS", "")
	client, err := NewClient("k", "m", "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.httpClient.Timeout != 120*time.Second {
		t.Fatalf("expected 120s default, got %s", client.httpClient.Timeout)
	}

	t.Setenv("OPENAI_TIMEOUT_SECONDS", "5")
	client, _ = NewClient("k", "m", "")
	if client.httpClient.Timeout != 5*time.Second {
		t.Fatalf("expected override of 5s, got %s", client.httpClient.Timeout)
	}

	t.Setenv("OPENAI_TIMEOUT_SECONDS", "-1")
	client, _ = NewClient("k", "m", "")
	if client.httpClient.Timeout != 120*time.Second {
		t.Fatalf("invalid override should keep default, got %s", client.httpClient.Timeout)
	}
}
