// Package metrics exposes pipeline outcome counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ArticlesGenerated counts articles persisted by the pipeline.
	ArticlesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_articles_generated_total",
		Help: "Articles created by the generation pipeline",
	})

	// DuplicatesShortCircuited counts requests answered from the corpus
	// without running the pipeline.
	DuplicatesShortCircuited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_duplicates_total",
		Help: "Generation requests short-circuited as duplicates",
	})

	// DegradedArticles counts articles whose bodies fell back to the origin
	// text because every provider failed.
	DegradedArticles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_degraded_articles_total",
		Help: "Articles persisted with origin-text fallback bodies",
	})

	// QuotaRefusals counts daily-budget refusals per bucket.
	QuotaRefusals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_quota_refusals_total",
		Help: "Calls refused by the daily quota tracker",
	}, []string{"bucket"})

	// ImageStrategyWins counts which waterfall source produced the image.
	ImageStrategyWins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_image_strategy_wins_total",
		Help: "Image waterfall wins by strategy",
	}, []string{"strategy"})
)
