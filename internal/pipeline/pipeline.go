// Package pipeline runs one generation request end to end: dedupe, research,
// drafting, image resolution, persistence.
package pipeline

import (
	"context"
	"log"
	"time"

	"qatar-standard/internal/articles"
	"qatar-standard/internal/fingerprint"
	"qatar-standard/internal/images"
	"qatar-standard/internal/llm"
	"qatar-standard/internal/metrics"
	"qatar-standard/internal/models"
	"qatar-standard/internal/strategy"

	"github.com/lib/pq"
)

// Request is a validated generation request.
type Request struct {
	Title        string
	TitleAr      string
	TitleEn      string
	SourceURL    string
	Context      string
	Category     string
	TweetAr      string
	TweetEn      string
	SpeakerName  string
	SpeakerTitle string
	ImageURL     string
	VideoURL     string
	Source       string
	Tags         []string
	PublishedAt  *time.Time
}

// Result is the pipeline outcome. Duplicate results carry the existing row.
type Result struct {
	Article   *models.Article
	Created   bool
	Duplicate bool
}

// Researcher collects context text for a story.
type Researcher interface {
	Research(ctx context.Context, sourceURL, title, suppliedContext string) string
}

// Delegator is an optional external generation service tried before the
// in-process orchestrator.
type Delegator interface {
	Generate(ctx context.Context, req llm.Request) (*llm.Draft, error)
}

// Drafter is the in-process orchestrator. It never fails outright.
type Drafter interface {
	Generate(ctx context.Context, req llm.Request) *llm.Draft
}

// ImageResolver finds an illustration, returning the URL and the winning
// source name.
type ImageResolver interface {
	Resolve(ctx context.Context, q images.Query) (string, string)
}

// Pipeline wires the stages together. external may be nil.
type Pipeline struct {
	store    *fingerprint.Store
	research Researcher
	external Delegator
	drafter  Drafter
	images   ImageResolver
	articles *articles.Service
}

// New builds a pipeline.
func New(store *fingerprint.Store, research Researcher, external Delegator, drafter Drafter, resolver ImageResolver, svc *articles.Service) *Pipeline {
	return &Pipeline{
		store:    store,
		research: research,
		external: external,
		drafter:  drafter,
		images:   resolver,
		articles: svc,
	}
}

// Run executes the pipeline for one request. Past the duplicate check it
// degrades rather than fails: a request with a valid title always produces a
// persisted article.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	fp := fingerprint.Compute(req.Title, req.SourceURL)

	// the source URL is authoritative: checked first, wins over wording
	existing, err := p.store.LookupBySourceURL(req.SourceURL)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		existing, err = p.store.LookupByFingerprint(fp)
		if err != nil {
			return nil, err
		}
	}
	if existing != nil {
		log.Printf("♻️ Duplicate signal, returning existing article %s", existing.Slug)
		metrics.DuplicatesShortCircuited.Inc()
		return &Result{Article: existing, Duplicate: true}, nil
	}

	researchText := p.research.Research(ctx, req.SourceURL, req.Title, req.Context)

	llmReq := llm.Request{
		Title:        req.Title,
		TweetAr:      req.TweetAr,
		TweetEn:      req.TweetEn,
		Research:     researchText,
		Category:     req.Category,
		SpeakerName:  req.SpeakerName,
		SpeakerTitle: req.SpeakerTitle,
	}
	draft := p.draft(ctx, llmReq)

	imageURL, imageSource := p.images.Resolve(ctx, images.Query{
		ProvidedURL: req.ImageURL,
		SourceURL:   req.SourceURL,
		Topic:       draft.TitleEn,
	})
	if imageSource != "" {
		metrics.ImageStrategyWins.WithLabelValues(imageSource).Inc()
	}

	article := p.buildArticle(req, draft, fp, imageURL)
	stored, created, err := p.articles.Upsert(article)
	if err != nil {
		return nil, err
	}

	if created {
		metrics.ArticlesGenerated.Inc()
		if draft.Degraded {
			metrics.DegradedArticles.Inc()
			log.Printf("⚠️ Article %s persisted with origin-text bodies", stored.Slug)
		} else {
			log.Printf("✅ Article %s generated", stored.Slug)
		}
	}

	return &Result{Article: stored, Created: created, Duplicate: !created}, nil
}

// draft runs the generation strategies: the external service first when
// configured, then the in-process orchestrator, which always answers.
func (p *Pipeline) draft(ctx context.Context, req llm.Request) *llm.Draft {
	var strategies []strategy.Strategy[*llm.Draft]
	if p.external != nil {
		strategies = append(strategies, strategy.Strategy[*llm.Draft]{
			Name: "generation-service",
			Run: func(ctx context.Context) (*llm.Draft, error) {
				return p.external.Generate(ctx, req)
			},
		})
	}
	strategies = append(strategies, strategy.Strategy[*llm.Draft]{
		Name: "orchestrator",
		Run: func(ctx context.Context) (*llm.Draft, error) {
			return p.drafter.Generate(ctx, req), nil
		},
	})

	draft, _ := strategy.First(ctx, strategies, func(d *llm.Draft) bool {
		return d != nil && d.BodyAr != "" && d.BodyEn != ""
	})
	if draft == nil {
		// unreachable in practice: the orchestrator degrades instead of
		// failing, but the invariant is bodies are never empty
		draft = &llm.Draft{
			TitleAr: req.Title, TitleEn: req.Title,
			BodyAr: req.Title, BodyEn: req.Title,
			Degraded: true,
		}
	}
	return draft
}

func (p *Pipeline) buildArticle(req Request, draft *llm.Draft, fp, imageURL string) *models.Article {
	article := &models.Article{
		// caller-supplied titles are canonical; drafted ones are the fallback
		TitleAr:            firstNonEmpty(req.TitleAr, draft.TitleAr),
		TitleEn:            firstNonEmpty(req.TitleEn, draft.TitleEn),
		BodyAr:             draft.BodyAr,
		BodyEn:             draft.BodyEn,
		Category:           req.Category,
		Source:             normalizeSource(req.Source),
		ContentFingerprint: &fp,
		Tags:               pq.StringArray(req.Tags),
		PublishedAt:        time.Now(),
	}
	if req.PublishedAt != nil {
		article.PublishedAt = *req.PublishedAt
	}
	if article.Category == "" {
		article.Category = "general"
	}
	if req.SourceURL != "" {
		article.SourceURL = &req.SourceURL
	}
	if req.TweetAr != "" {
		article.TweetAr = &req.TweetAr
	}
	if req.TweetEn != "" {
		article.TweetEn = &req.TweetEn
	}
	if req.SpeakerName != "" {
		article.SpeakerName = &req.SpeakerName
	}
	if req.SpeakerTitle != "" {
		article.SpeakerTitle = &req.SpeakerTitle
	}
	if imageURL != "" {
		article.ImageURL = &imageURL
	}
	if req.VideoURL != "" {
		article.VideoURL = &req.VideoURL
	}

	p.articles.PrepareExcerpts(article)
	return article
}

func normalizeSource(source string) string {
	switch source {
	case models.SourceBot, models.SourceDesk, models.SourceManual:
		return source
	default:
		return models.SourceBot
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
