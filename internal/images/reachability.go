// Package images resolves a usable illustration for an article through an
// ordered waterfall of sources, every candidate gated by a liveness check.
package images

import (
	"context"
	"net/http"
	"time"
)

// Checker verifies that an image URL actually serves bytes before the
// pipeline persists it.
type Checker struct {
	httpClient *http.Client
}

// NewChecker creates a checker with the given per-probe timeout.
func NewChecker(timeout time.Duration) *Checker {
	return &Checker{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Reachable probes the URL with HEAD. Hosts that reject HEAD (403/405) are
// retried with a ranged GET so CDN hotlink rules don't fail live images.
func (c *Checker) Reachable(ctx context.Context, imageURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, imageURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", "QatarStandard/1.0 (+https://qatar-standard.com)")

	resp, err := c.httpClient.Do(req)
	if err == nil {
		defer resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return true
		}
		if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusMethodNotAllowed {
			return false
		}
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", "QatarStandard/1.0 (+https://qatar-standard.com)")
	req.Header.Set("Range", "bytes=0-1024")

	resp, err = c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
