// Package metadata extracts the representative image and title from article
// pages.
package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// PageMeta holds the metadata fields the pipeline consumes.
type PageMeta struct {
	Title       string
	Description string
	ImageURL    string
}

// Extractor fetches pages and reads their social-preview metadata.
type Extractor struct {
	httpClient *http.Client
}

// NewExtractor creates an extractor with the given fetch timeout.
func NewExtractor(timeout time.Duration) *Extractor {
	return &Extractor{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
	}
}

// Extract fetches pageURL and returns its metadata. Relative image URLs are
// resolved against the page URL.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*PageMeta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "QatarStandard/1.0 (+https://qatar-standard.com)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	meta := &PageMeta{}
	walkMeta(doc, meta)

	if meta.ImageURL != "" {
		meta.ImageURL = resolveURL(pageURL, meta.ImageURL)
	}

	return meta, nil
}

func walkMeta(n *html.Node, meta *PageMeta) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "title":
			if meta.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				meta.Title = strings.TrimSpace(n.FirstChild.Data)
			}
		case "meta":
			var name, property, content string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "name":
					name = attr.Val
				case "property":
					property = attr.Val
				case "content":
					content = attr.Val
				}
			}
			if content == "" {
				break
			}
			switch {
			case property == "og:title" && meta.Title == "":
				meta.Title = content
			case (name == "description" || property == "og:description") && meta.Description == "":
				meta.Description = content
			case property == "og:image" || property == "twitter:image" || name == "twitter:image":
				if meta.ImageURL == "" {
					meta.ImageURL = content
				}
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkMeta(c, meta)
	}
}

// genericImageMarkers are substrings of image URLs that identify site
// furniture rather than story art.
var genericImageMarkers = []string{
	"logo", "placeholder", "default", "sprite", "favicon",
	"icon", "avatar", "blank", "1x1", "og-image-default",
}

// IsGenericImage reports whether the URL looks like a logo or placeholder
// rather than an image of the story itself.
func IsGenericImage(imageURL string) bool {
	lower := strings.ToLower(imageURL)
	for _, marker := range genericImageMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func resolveURL(pageURL, imageURL string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return imageURL
	}
	ref, err := url.Parse(imageURL)
	if err != nil {
		return imageURL
	}
	return base.ResolveReference(ref).String()
}
