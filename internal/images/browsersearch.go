package images

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// BrowserSearchClient asks a browser-automation sidecar to run an image
// search. The sidecar renders real result pages, so it finds images the JSON
// APIs miss.
type BrowserSearchClient struct {
	url        string
	httpClient *http.Client
}

// NewBrowserSearchClient creates a sidecar client, or nil when no URL is
// configured.
func NewBrowserSearchClient(url string, timeout time.Duration) *BrowserSearchClient {
	if url == "" {
		return nil
	}
	return &BrowserSearchClient{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search posts the query to the sidecar and returns the image URL it found.
func (c *BrowserSearchClient) Search(ctx context.Context, query string) (string, error) {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return "", fmt.Errorf("marshal sidecar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sidecar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("sidecar HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode sidecar response: %w", err)
	}
	return out.ImageURL, nil
}
