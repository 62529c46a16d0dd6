package articles

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"qatar-standard/internal/fingerprint"
	"qatar-standard/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return NewService(db, ".!؟", ".!")
}

func TestGenerateSlug(t *testing.T) {
	slug := GenerateSlug("Qatar Hosts Gulf Summit!")
	if !regexp.MustCompile(`^qatar-hosts-gulf-summit-[0-9a-z]{4}$`).MatchString(slug) {
		t.Errorf("Unexpected slug shape: %q", slug)
	}

	long := GenerateSlug("A very long headline that keeps going and going and going well past sixty characters total")
	if len(long) > maxSlugBase+1+slugSuffixLen {
		t.Errorf("Expected slug base capped at %d chars, got %q (%d)", maxSlugBase, long, len(long))
	}

	arabicOnly := GenerateSlug("قمة الدوحة")
	if !regexp.MustCompile(`^article-[0-9a-z]{4}$`).MatchString(arabicOnly) {
		t.Errorf("Expected literal fallback for non-ASCII titles, got %q", arabicOnly)
	}
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		terminators string
		want        string
	}{
		{"english period", "First sentence. Second sentence.", ".!", "First sentence."},
		{"english exclaim", "Big news! More detail follows.", ".!", "Big news!"},
		{"arabic question mark", "هل انتهت القمة؟ نعم انتهت.", ".!؟", "هل انتهت القمة؟"},
		{"no terminator short", "a short fragment", ".!", "a short fragment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Excerpt(tt.body, tt.terminators); got != tt.want {
				t.Errorf("Excerpt(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestUpsertCreatesAndReReads(t *testing.T) {
	svc := setupTestService(t)

	fp := fingerprint.Compute("Doha summit", "https://example.com/story")
	article := &models.Article{
		TitleAr:            "قمة الدوحة",
		TitleEn:            "Doha Summit",
		BodyAr:             "النص.",
		BodyEn:             "Body.",
		ContentFingerprint: &fp,
		PublishedAt:        time.Now(),
	}

	stored, created, err := svc.Upsert(article)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if !created {
		t.Error("Expected first upsert to create")
	}
	if stored.Slug == "" || stored.TitleEn != "Doha Summit" {
		t.Errorf("Unexpected canonical row: %+v", stored)
	}
}

func TestUpsertIsIdempotentOnFingerprint(t *testing.T) {
	svc := setupTestService(t)

	fp := fingerprint.Compute("Doha summit", "https://example.com/story")
	first := &models.Article{
		TitleAr: "قمة", TitleEn: "Doha Summit",
		BodyAr: "نص.", BodyEn: "Body.",
		ContentFingerprint: &fp,
		PublishedAt:        time.Now(),
	}
	stored, _, err := svc.Upsert(first)
	if err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}

	second := &models.Article{
		TitleAr: "قمة أخرى", TitleEn: "Doha Summit Again",
		BodyAr: "نص آخر.", BodyEn: "Other body.",
		ContentFingerprint: &fp,
		PublishedAt:        time.Now(),
	}
	dup, created, err := svc.Upsert(second)
	if err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}
	if created {
		t.Error("Expected duplicate fingerprint to short-circuit")
	}
	if dup.Slug != stored.Slug {
		t.Errorf("Expected the existing row back, got slug %q want %q", dup.Slug, stored.Slug)
	}
}

func TestUpsertRetriesSlugCollision(t *testing.T) {
	svc := setupTestService(t)

	fpA := "fp-a"
	first := &models.Article{
		Slug:    "doha-summit-aaaa",
		TitleAr: "أ", TitleEn: "Doha Summit",
		BodyAr: "نص.", BodyEn: "Body.",
		ContentFingerprint: &fpA,
		PublishedAt:        time.Now(),
	}
	if _, _, err := svc.Upsert(first); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}

	fpB := "fp-b"
	second := &models.Article{
		Slug:    "doha-summit-aaaa",
		TitleAr: "ب", TitleEn: "Doha Summit",
		BodyAr: "نص ثان.", BodyEn: "Second body.",
		ContentFingerprint: &fpB,
		PublishedAt:        time.Now(),
	}
	stored, created, err := svc.Upsert(second)
	if err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}
	if !created {
		t.Error("Expected different content to create despite slug collision")
	}
	if stored.Slug == "doha-summit-aaaa" {
		t.Error("Expected a regenerated slug")
	}
}

func TestListFiltersByCategory(t *testing.T) {
	svc := setupTestService(t)

	for _, a := range []*models.Article{
		{TitleAr: "أ", TitleEn: "One", BodyAr: "ن.", BodyEn: "B.", Category: "economy", PublishedAt: time.Now()},
		{TitleAr: "ب", TitleEn: "Two", BodyAr: "ن.", BodyEn: "B.", Category: "diplomacy", PublishedAt: time.Now()},
	} {
		if _, _, err := svc.Upsert(a); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	list, total, err := svc.List(10, 0, "economy")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].TitleEn != "One" {
		t.Errorf("Unexpected filtered list: total=%d list=%+v", total, list)
	}
}

func TestSearchMatchesBothTitles(t *testing.T) {
	svc := setupTestService(t)

	if _, _, err := svc.Upsert(&models.Article{
		TitleAr: "قمة الدوحة", TitleEn: "Gulf Talks",
		BodyAr: "ن.", BodyEn: "B.", PublishedAt: time.Now(),
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	byEn, total, err := svc.Search("Gulf", 10, 0)
	if err != nil || total != 1 || len(byEn) != 1 {
		t.Fatalf("Expected English title match, got total=%d err=%v", total, err)
	}

	byAr, total, err := svc.Search("الدوحة", 10, 0)
	if err != nil || total != 1 || len(byAr) != 1 {
		t.Fatalf("Expected Arabic title match, got total=%d err=%v", total, err)
	}
}

func TestIncrementViews(t *testing.T) {
	svc := setupTestService(t)

	stored, _, err := svc.Upsert(&models.Article{
		TitleAr: "أ", TitleEn: "Viewed",
		BodyAr: "ن.", BodyEn: "B.", PublishedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := svc.IncrementViews(stored.Slug); err != nil {
		t.Fatalf("IncrementViews failed: %v", err)
	}
	again, err := svc.GetBySlug(stored.Slug)
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if again.ViewCount != 1 {
		t.Errorf("Expected view count 1, got %d", again.ViewCount)
	}
}

func TestDeleteMissingArticle(t *testing.T) {
	svc := setupTestService(t)
	if err := svc.Delete("no-such-slug"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound, got %v", err)
	}
}

func TestUpdateImage(t *testing.T) {
	svc := setupTestService(t)

	stored, _, err := svc.Upsert(&models.Article{
		TitleAr: "أ", TitleEn: "Pictured",
		BodyAr: "ن.", BodyEn: "B.", PublishedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	updated, err := svc.UpdateImage(stored.Slug, "https://cdn.example.com/new.jpg")
	if err != nil {
		t.Fatalf("UpdateImage failed: %v", err)
	}
	if updated.ImageURL == nil || *updated.ImageURL != "https://cdn.example.com/new.jpg" {
		t.Errorf("Unexpected image URL: %v", updated.ImageURL)
	}
}
