package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultPexelsEndpoint = "https://api.pexels.com/v1/search"

// PexelsClient searches a stock-photo catalog. Stock art is the last resort
// before giving up on an image entirely.
type PexelsClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewPexelsClient creates a stock client, or nil when no API key is set.
func NewPexelsClient(endpoint, apiKey string) *PexelsClient {
	if apiKey == "" {
		return nil
	}
	if endpoint == "" {
		endpoint = defaultPexelsEndpoint
	}
	return &PexelsClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Search returns the first large-size photo URL for the query.
func (c *PexelsClient) Search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "3")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("stock request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stock provider HTTP %d", resp.StatusCode)
	}

	var payload struct {
		Photos []struct {
			Src struct {
				Large string `json:"large"`
			} `json:"src"`
		} `json:"photos"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode stock response: %w", err)
	}

	if len(payload.Photos) == 0 {
		return "", nil
	}
	return payload.Photos[0].Src.Large, nil
}
