package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"quickai-backend/internal/llm"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Client implements llm.Completer with the Gemini API.
type Client struct {
	model  string
	models *genai.Models
}

// NewClient constructs a Gemini client.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{model: model, models: client.Models}, nil
}

// Complete sends one prompt and returns the trimmed text answer.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), buildConfig(req))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	content := strings.TrimSpace(resp.Text())
	if content == "" {
		return "", llm.ErrEmptyCompletion
	}
	return content, nil
}

func buildConfig(req llm.Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(req.Temperature)
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if strings.TrimSpace(req.System) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	return cfg
}

var _ llm.Completer = (*Client)(nil)
