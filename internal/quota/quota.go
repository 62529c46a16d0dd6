// Package quota enforces daily call budgets for paid external providers.
package quota

import (
	"log"
	"sync"
	"time"

	"qatar-standard/internal/metrics"
)

// Bucket names used by the pipeline.
const (
	BucketResearchSearch = "research-search"
	BucketImageSearch    = "image-search"
)

type bucket struct {
	day   string
	count int
}

// Tracker keeps an in-memory counter per bucket that resets at the day
// boundary. Counts are lost on restart; that drift is acceptable because the
// budgets exist to cap spend, not for correctness.
type Tracker struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

// NewTracker creates a tracker using the wall clock.
func NewTracker() *Tracker {
	return NewTrackerWithClock(time.Now)
}

// NewTrackerWithClock creates a tracker with an injected clock so tests can
// control day rollover.
func NewTrackerWithClock(now func() time.Time) *Tracker {
	return &Tracker{
		buckets: make(map[string]*bucket),
		now:     now,
	}
}

// TryConsume consumes one call from the named bucket. Consumption is
// all-or-nothing: at or above maxPerDay the call is refused and the counter
// is untouched. A new calendar day resets the counter before evaluation.
func (t *Tracker) TryConsume(bucketKey string, maxPerDay int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	today := t.now().Format("2006-01-02")

	b, ok := t.buckets[bucketKey]
	if !ok || b.day != today {
		b = &bucket{day: today}
		t.buckets[bucketKey] = b
	}

	if b.count >= maxPerDay {
		log.Printf("⚠️ Quota exhausted for %s (%d/%d)", bucketKey, b.count, maxPerDay)
		metrics.QuotaRefusals.WithLabelValues(bucketKey).Inc()
		return false
	}

	b.count++
	return true
}

// Used returns today's consumption for a bucket, for status reporting.
func (t *Tracker) Used(bucketKey string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.buckets[bucketKey]
	if !ok || b.day != t.now().Format("2006-01-02") {
		return 0
	}
	return b.count
}
