package clipdrop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"quickai-backend/internal/imagegen"
)

const (
	DefaultURL = "https://clipdrop-api.co/text-to-image/v1"

	maxImageBytes = 20 << 20
)

// Client calls the ClipDrop text-to-image endpoint.
type Client struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

// NewClient constructs a Client. An empty url uses DefaultURL.
func NewClient(apiKey, url string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("CLIPDROP_API_KEY is required")
	}
	if strings.TrimSpace(url) == "" {
		url = DefaultURL
	}
	return &Client{
		apiKey:     apiKey,
		url:        url,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}, nil
}

// Generate posts the prompt as multipart form data and returns the image bytes.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("prompt", prompt); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clipdrop request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("clipdrop read: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("clipdrop http status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if len(data) == 0 {
		return nil, errors.New("clipdrop returned an empty image")
	}
	return data, nil
}

var _ imagegen.Generator = (*Client)(nil)
