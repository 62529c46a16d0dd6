// Package search wraps the SerpAPI web-search provider used for research
// context and image discovery. Every call here is billed, so call sites are
// gated by the quota tracker.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// NewsResult is one hit from the news engine.
type NewsResult struct {
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
	Source    string `json:"source"`
	Link      string `json:"link"`
	Thumbnail string `json:"thumbnail"`
}

// Client talks to a SerpAPI-compatible endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a search client. An empty apiKey produces a client whose
// calls all return empty results, mirroring how the upstream agent behaves
// without a key.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// SearchNews queries the news engine and returns up to num results.
func (c *Client) SearchNews(ctx context.Context, query string, num int) ([]NewsResult, error) {
	if !c.Configured() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("tbm", "nws")
	params.Set("num", fmt.Sprintf("%d", num))
	params.Set("api_key", c.apiKey)

	var payload struct {
		NewsResults []NewsResult `json:"news_results"`
	}
	if err := c.get(ctx, params, &payload); err != nil {
		return nil, err
	}
	return payload.NewsResults, nil
}

// SearchImages queries the image engine and returns the first usable image
// URL. Google-hosted thumbnails are skipped: they expire and are not
// attributable.
func (c *Client) SearchImages(ctx context.Context, query string) (string, error) {
	if !c.Configured() {
		return "", nil
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("tbm", "isch")
	params.Set("num", "5")
	params.Set("safe", "active")
	params.Set("api_key", c.apiKey)

	var payload struct {
		ImagesResults []struct {
			Original  string `json:"original"`
			Thumbnail string `json:"thumbnail"`
		} `json:"images_results"`
	}
	if err := c.get(ctx, params, &payload); err != nil {
		return "", err
	}

	for _, r := range payload.ImagesResults {
		src := r.Original
		if src == "" {
			src = r.Thumbnail
		}
		if strings.HasPrefix(src, "http") && !strings.Contains(src, "gstatic") && !strings.Contains(src, "google.com") {
			return src, nil
		}
	}
	return "", nil
}

func (c *Client) get(ctx context.Context, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("search provider HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode search response: %w", err)
	}
	return nil
}
