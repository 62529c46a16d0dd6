// Package articles is the persistence layer for published articles.
package articles

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"qatar-standard/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	maxSlugBase   = 60
	slugSuffixLen = 4
	slugAlphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Service stores and queries articles.
type Service struct {
	db                   *gorm.DB
	excerptTerminatorsAr string
	excerptTerminatorsEn string
}

// NewService creates an article service. The terminator sets define where
// each language's excerpt sentence ends.
func NewService(db *gorm.DB, excerptTerminatorsAr, excerptTerminatorsEn string) *Service {
	return &Service{
		db:                   db,
		excerptTerminatorsAr: excerptTerminatorsAr,
		excerptTerminatorsEn: excerptTerminatorsEn,
	}
}

// GenerateSlug builds a URL slug from the English title: lowercased ASCII,
// hyphenated, capped, plus a short random suffix so same-headline stories
// don't collide.
func GenerateSlug(title string) string {
	base := strings.ToLower(title)
	base = nonSlugChars.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	if len(base) > maxSlugBase {
		base = base[:maxSlugBase]
		base = strings.TrimRight(base, "-")
	}
	if base == "" {
		base = "article"
	}

	suffix := make([]byte, slugSuffixLen)
	for i := range suffix {
		suffix[i] = slugAlphabet[rand.Intn(len(slugAlphabet))]
	}
	return base + "-" + string(suffix)
}

// Excerpt returns the first sentence of body, cut at the earliest rune in
// terminators. Bodies with no terminator are truncated instead.
func Excerpt(body, terminators string) string {
	body = strings.TrimSpace(body)
	for i, r := range body {
		if strings.ContainsRune(terminators, r) {
			return body[:i+len(string(r))]
		}
	}
	runes := []rune(body)
	if len(runes) > 200 {
		return string(runes[:200])
	}
	return body
}

// PrepareExcerpts fills both excerpt columns from the bodies.
func (s *Service) PrepareExcerpts(article *models.Article) {
	article.ExcerptAr = Excerpt(article.BodyAr, s.excerptTerminatorsAr)
	article.ExcerptEn = Excerpt(article.BodyEn, s.excerptTerminatorsEn)
}

// Upsert inserts the article idempotently. A fingerprint conflict returns
// the already-persisted row; a slug collision with different content gets a
// fresh suffix. The returned article is always re-read from the store so the
// caller sees the canonical row.
func (s *Service) Upsert(article *models.Article) (*models.Article, bool, error) {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	if article.Slug == "" {
		article.Slug = GenerateSlug(article.TitleEn)
	}

	for attempt := 0; attempt < 3; attempt++ {
		result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(article)
		if result.Error != nil {
			return nil, false, fmt.Errorf("failed to insert article: %w", result.Error)
		}

		if result.RowsAffected > 0 {
			canonical, err := s.GetBySlug(article.Slug)
			if err != nil {
				return nil, false, err
			}
			return canonical, true, nil
		}

		// conflict: a fingerprint match means the story already exists
		if article.ContentFingerprint != nil {
			var existing models.Article
			err := s.db.Where("content_fingerprint = ?", *article.ContentFingerprint).First(&existing).Error
			if err == nil {
				return &existing, false, nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, false, fmt.Errorf("failed to look up existing article: %w", err)
			}
		}

		// slug collision with different content: retry with a new suffix
		article.Slug = GenerateSlug(article.TitleEn)
	}

	return nil, false, fmt.Errorf("failed to insert article after slug retries")
}

// GetBySlug returns one article or gorm.ErrRecordNotFound.
func (s *Service) GetBySlug(slug string) (*models.Article, error) {
	var article models.Article
	if err := s.db.Where("slug = ?", slug).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// List returns published articles newest-first, optionally filtered by
// category, with the total count for pagination.
func (s *Service) List(limit, offset int, category string) ([]models.Article, int64, error) {
	query := s.db.Model(&models.Article{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	var list []models.Article
	err := query.Order("published_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	return list, total, nil
}

// Search matches the query against both titles, newest-first.
func (s *Service) Search(q string, limit, offset int) ([]models.Article, int64, error) {
	pattern := "%" + q + "%"
	query := s.db.Model(&models.Article{}).
		Where("title_ar LIKE ? OR title_en LIKE ?", pattern, pattern)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	var list []models.Article
	err := query.Order("published_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search articles: %w", err)
	}
	return list, total, nil
}

// IncrementViews bumps the read counter without touching other columns.
func (s *Service) IncrementViews(slug string) error {
	return s.db.Model(&models.Article{}).
		Where("slug = ?", slug).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// Delete removes an article by slug. gorm.ErrRecordNotFound when absent.
func (s *Service) Delete(slug string) error {
	result := s.db.Where("slug = ?", slug).Delete(&models.Article{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete article: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateImage replaces the article image and returns the updated row.
func (s *Service) UpdateImage(slug, imageURL string) (*models.Article, error) {
	article, err := s.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	article.ImageURL = &imageURL
	if err := s.db.Model(article).Update("image_url", imageURL).Error; err != nil {
		return nil, fmt.Errorf("failed to update article image: %w", err)
	}
	return article, nil
}
