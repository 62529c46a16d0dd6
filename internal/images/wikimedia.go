package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultWikimediaEndpoint = "https://commons.wikimedia.org/w/api.php"

// WikimediaClient searches Wikimedia Commons for freely licensed photos.
type WikimediaClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewWikimediaClient creates a Commons client. An empty endpoint selects the
// public API.
func NewWikimediaClient(endpoint string) *WikimediaClient {
	if endpoint == "" {
		endpoint = defaultWikimediaEndpoint
	}
	return &WikimediaClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Search returns the first file URL matching the query. Long topics are cut
// to their first six words; Commons search degrades badly past that.
func (c *WikimediaClient) Search(ctx context.Context, query string) (string, error) {
	words := strings.Fields(query)
	if len(words) > 6 {
		words = words[:6]
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("generator", "search")
	params.Set("gsrsearch", strings.Join(words, " "))
	params.Set("gsrnamespace", "6")
	params.Set("gsrlimit", "5")
	params.Set("prop", "imageinfo")
	params.Set("iiprop", "url")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "QatarStandard/1.0 (+https://qatar-standard.com)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("commons request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("commons HTTP %d", resp.StatusCode)
	}

	var payload struct {
		Query struct {
			Pages map[string]struct {
				ImageInfo []struct {
					URL string `json:"url"`
				} `json:"imageinfo"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode commons response: %w", err)
	}

	for _, page := range payload.Query.Pages {
		for _, info := range page.ImageInfo {
			if strings.HasPrefix(info.URL, "http") {
				return info.URL, nil
			}
		}
	}
	return "", nil
}
