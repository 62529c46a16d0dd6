package images

import (
	"context"

	"qatar-standard/internal/metadata"
	"qatar-standard/internal/quota"
	"qatar-standard/internal/search"
	"qatar-standard/internal/strategy"
)

// MetadataReader is the slice of the metadata extractor the waterfall needs.
type MetadataReader interface {
	Extract(ctx context.Context, pageURL string) (*metadata.PageMeta, error)
}

// SearchProvider is the slice of the search client the waterfall needs.
type SearchProvider interface {
	SearchNews(ctx context.Context, query string, num int) ([]search.NewsResult, error)
	SearchImages(ctx context.Context, query string) (string, error)
	Configured() bool
}

// ImageSearcher is a single-purpose image lookup (Commons, stock, sidecar).
type ImageSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Query carries everything the waterfall can draw on for one article.
type Query struct {
	ProvidedURL string
	SourceURL   string
	Topic       string
}

// Waterfall resolves an article image through ordered sources. Every
// candidate must pass the reachability check; a miss moves to the next
// source, and an empty result is a valid terminal state.
type Waterfall struct {
	checker      *Checker
	metadata     MetadataReader
	search       SearchProvider
	quota        *quota.Tracker
	searchPerDay int
	browser      ImageSearcher
	commons      ImageSearcher
	stock        ImageSearcher
}

// NewWaterfall wires the waterfall. browser and stock may be nil; their
// strategies are skipped.
func NewWaterfall(checker *Checker, reader MetadataReader, provider SearchProvider, tracker *quota.Tracker, searchPerDay int, browser, commons, stock ImageSearcher) *Waterfall {
	return &Waterfall{
		checker:      checker,
		metadata:     reader,
		search:       provider,
		quota:        tracker,
		searchPerDay: searchPerDay,
		browser:      browser,
		commons:      commons,
		stock:        stock,
	}
}

// Resolve returns the first reachable image URL for the query and the name
// of the source that produced it, or ("", "") when every source missed.
func (w *Waterfall) Resolve(ctx context.Context, q Query) (string, string) {
	// one billed news lookup shared by the thumbnail and og strategies
	var newsResults []search.NewsResult
	var newsFetched bool
	fetchNews := func(ctx context.Context) []search.NewsResult {
		if newsFetched {
			return newsResults
		}
		newsFetched = true
		if w.search == nil || !w.search.Configured() {
			return nil
		}
		if !w.quota.TryConsume(quota.BucketImageSearch, w.searchPerDay) {
			return nil
		}
		results, err := w.search.SearchNews(ctx, q.Topic, 5)
		if err != nil {
			return nil
		}
		newsResults = results
		return newsResults
	}

	strategies := []strategy.Strategy[string]{
		{Name: "provided", Run: func(ctx context.Context) (string, error) {
			return q.ProvidedURL, nil
		}},
		{Name: "source-metadata", Run: func(ctx context.Context) (string, error) {
			if q.SourceURL == "" {
				return "", nil
			}
			meta, err := w.metadata.Extract(ctx, q.SourceURL)
			if err != nil {
				return "", err
			}
			if metadata.IsGenericImage(meta.ImageURL) {
				return "", nil
			}
			return meta.ImageURL, nil
		}},
		{Name: "news-thumbnail", Run: func(ctx context.Context) (string, error) {
			for _, r := range fetchNews(ctx) {
				if r.Thumbnail != "" && !metadata.IsGenericImage(r.Thumbnail) {
					return r.Thumbnail, nil
				}
			}
			return "", nil
		}},
		{Name: "news-page-metadata", Run: func(ctx context.Context) (string, error) {
			results := fetchNews(ctx)
			for i, r := range results {
				if i >= 3 {
					break
				}
				if r.Link == "" {
					continue
				}
				meta, err := w.metadata.Extract(ctx, r.Link)
				if err != nil {
					continue
				}
				if meta.ImageURL != "" && !metadata.IsGenericImage(meta.ImageURL) {
					return meta.ImageURL, nil
				}
			}
			return "", nil
		}},
		{Name: "image-search", Run: func(ctx context.Context) (string, error) {
			if w.search == nil || !w.search.Configured() {
				return "", nil
			}
			if !w.quota.TryConsume(quota.BucketImageSearch, w.searchPerDay) {
				return "", nil
			}
			return w.search.SearchImages(ctx, q.Topic)
		}},
		{Name: "browser-search", Run: func(ctx context.Context) (string, error) {
			if w.browser == nil {
				return "", nil
			}
			return w.browser.Search(ctx, q.Topic)
		}},
		{Name: "wikimedia", Run: func(ctx context.Context) (string, error) {
			if w.commons == nil {
				return "", nil
			}
			return w.commons.Search(ctx, q.Topic)
		}},
		{Name: "stock", Run: func(ctx context.Context) (string, error) {
			if w.stock == nil {
				return "", nil
			}
			return w.stock.Search(ctx, q.Topic)
		}},
	}

	return strategy.First(ctx, strategies, func(candidate string) bool {
		return candidate != "" && w.checker.Reachable(ctx, candidate)
	})
}
