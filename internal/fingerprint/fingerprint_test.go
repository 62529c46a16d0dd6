package fingerprint

import (
	"testing"
	"time"

	"qatar-standard/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func TestComputeDeterminism(t *testing.T) {
	a := Compute("Gulf summit concludes", "https://example.com/a")
	b := Compute("Gulf summit concludes", "https://example.com/a")
	if a != b {
		t.Errorf("Expected identical fingerprints, got %s and %s", a, b)
	}
}

func TestComputeNormalizesURL(t *testing.T) {
	base := Compute("title", "https://example.com/a")

	tests := []struct {
		name string
		url  string
	}{
		{"Upper case", "HTTPS://EXAMPLE.COM/A"},
		{"Leading whitespace", "  https://example.com/a"},
		{"Trailing whitespace", "https://example.com/a\n"},
		{"Mixed", "  HTTPS://example.com/A  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute("title", tt.url); got != base {
				t.Errorf("Expected fingerprint %s for %q, got %s", base, tt.url, got)
			}
		})
	}
}

func TestComputeFallsBackToTitle(t *testing.T) {
	withURL := Compute("same title", "https://example.com/a")
	noURL := Compute("same title", "")
	if withURL == noURL {
		t.Error("Expected URL-based and title-based fingerprints to differ")
	}

	if Compute("same title", "") != Compute("same title", "   ") {
		t.Error("Expected blank URL to behave like absent URL")
	}
}

func TestLookups(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	url := "https://example.com/a"
	fp := Compute("Gulf summit concludes", url)
	article := models.Article{
		ID:                 uuid.New(),
		Slug:               "gulf-summit-concludes-ab12",
		ContentFingerprint: &fp,
		SourceURL:          &url,
		TitleAr:            "اختتام القمة الخليجية",
		BodyAr:             "نص",
		PublishedAt:        time.Now(),
	}
	if err := db.Create(&article).Error; err != nil {
		t.Fatalf("Failed to create article: %v", err)
	}

	found, err := store.LookupBySourceURL(url)
	if err != nil {
		t.Fatalf("LookupBySourceURL failed: %v", err)
	}
	if found == nil || found.Slug != article.Slug {
		t.Errorf("Expected to find article by source URL, got %+v", found)
	}

	found, err = store.LookupByFingerprint(fp)
	if err != nil {
		t.Fatalf("LookupByFingerprint failed: %v", err)
	}
	if found == nil || found.Slug != article.Slug {
		t.Errorf("Expected to find article by fingerprint, got %+v", found)
	}

	missing, err := store.LookupBySourceURL("https://example.com/other")
	if err != nil {
		t.Fatalf("LookupBySourceURL failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected no match for unknown URL, got %+v", missing)
	}

	missing, err = store.LookupByFingerprint("no-such-fingerprint")
	if err != nil {
		t.Fatalf("LookupByFingerprint failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected no match for unknown fingerprint, got %+v", missing)
	}
}

func TestLookupBySourceURLBlank(t *testing.T) {
	store := NewStore(setupTestDB(t))

	found, err := store.LookupBySourceURL("")
	if err != nil {
		t.Fatalf("LookupBySourceURL failed: %v", err)
	}
	if found != nil {
		t.Errorf("Expected nil for blank URL, got %+v", found)
	}
}
