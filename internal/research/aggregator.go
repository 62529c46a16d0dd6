// Package research assembles the contextual text handed to the language
// model. Sources are tried in decreasing order of richness: caller-supplied
// context, then the source article itself, then a paid news search.
package research

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"qatar-standard/internal/quota"
	"qatar-standard/internal/search"

	"github.com/PuerkitoBio/goquery"
)

// Searcher is the slice of the search client the aggregator needs.
type Searcher interface {
	SearchNews(ctx context.Context, query string, num int) ([]search.NewsResult, error)
	Configured() bool
}

// Aggregator collects research context for one generation request.
type Aggregator struct {
	searcher     Searcher
	quota        *quota.Tracker
	searchPerDay int
	maxChars     int
	httpClient   *http.Client
}

// NewAggregator builds an aggregator. fetchTimeout bounds the source-article
// fetch; maxChars bounds the extracted text.
func NewAggregator(searcher Searcher, tracker *quota.Tracker, searchPerDay int, fetchTimeout time.Duration, maxChars int) *Aggregator {
	return &Aggregator{
		searcher:     searcher,
		quota:        tracker,
		searchPerDay: searchPerDay,
		maxChars:     maxChars,
		httpClient: &http.Client{
			Timeout: fetchTimeout,
		},
	}
}

// Research returns the concatenated context for a story. Every part is
// optional; fetch failures are swallowed, and the search fallback runs only
// when nothing cheaper produced content.
func (a *Aggregator) Research(ctx context.Context, sourceURL, title, suppliedContext string) string {
	var parts []string

	if s := strings.TrimSpace(suppliedContext); s != "" {
		parts = append(parts, s)
	}

	if sourceURL != "" {
		if text := a.fetchSourceText(ctx, sourceURL); text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		if bullets := a.searchFallback(ctx, title); bullets != "" {
			parts = append(parts, bullets)
		}
	}

	return strings.Join(parts, "\n\n")
}

// fetchSourceText downloads the source article and extracts its paragraph
// text. Any failure returns "" — a missing part, never a fatal error.
func (a *Aggregator) fetchSourceText(ctx context.Context, sourceURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "QatarStandard/1.0 (+https://qatar-standard.com)")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		log.Printf("⚠️ Source fetch failed for %s: %v", sourceURL, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	doc.Find("script, style, nav, footer, aside").Remove()

	var paragraphs []string
	selectors := []string{
		"article p",
		".article-body p",
		".content p",
		"main p",
		"p",
	}
	for _, selector := range selectors {
		var found []string
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) > 30 {
				found = append(found, text)
			}
		})
		if len(found) > 0 {
			paragraphs = found
			break
		}
	}

	text := strings.Join(strings.Fields(strings.Join(paragraphs, " ")), " ")
	if text == "" {
		return ""
	}
	if len(text) > a.maxChars {
		text = text[:a.maxChars]
		// do not end mid-word
		if idx := strings.LastIndex(text, " "); idx > 0 {
			text = text[:idx]
		}
	}
	return text
}

// searchFallback queries the news search provider, gated by the daily quota.
// Quota exhaustion and provider failures both yield "".
func (a *Aggregator) searchFallback(ctx context.Context, title string) string {
	if a.searcher == nil || !a.searcher.Configured() {
		return ""
	}
	if !a.quota.TryConsume(quota.BucketResearchSearch, a.searchPerDay) {
		return ""
	}

	results, err := a.searcher.SearchNews(ctx, title, 5)
	if err != nil {
		log.Printf("⚠️ Research search failed for %q: %v", title, err)
		return ""
	}

	var lines []string
	for _, r := range results {
		if r.Title == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s — %s: %s", r.Source, r.Title, r.Snippet))
	}
	return strings.Join(lines, "\n")
}
