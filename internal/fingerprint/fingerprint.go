// Package fingerprint detects duplicate submissions against the persisted
// article corpus.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"qatar-standard/internal/models"

	"gorm.io/gorm"
)

// Compute returns the content fingerprint for a submission. The source URL,
// lower-cased and trimmed, is the preferred identity; the title is the
// fallback when no URL was supplied. Identical inputs always hash
// identically.
func Compute(title, sourceURL string) string {
	basis := strings.ToLower(strings.TrimSpace(sourceURL))
	if basis == "" {
		basis = title
	}
	sum := sha256.Sum256([]byte(basis))
	return hex.EncodeToString(sum[:])
}

// Store answers duplicate lookups against the article table.
type Store struct {
	db *gorm.DB
}

// NewStore creates a fingerprint store backed by db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// LookupBySourceURL returns the article already created from url, or nil.
// URL identity is checked before fingerprint identity: it is the stronger,
// cheaper signal.
func (s *Store) LookupBySourceURL(url string) (*models.Article, error) {
	if strings.TrimSpace(url) == "" {
		return nil, nil
	}

	var article models.Article
	err := s.db.Where("source_url = ?", url).First(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up source URL: %w", err)
	}
	return &article, nil
}

// LookupByFingerprint returns the article with the given fingerprint, or nil.
func (s *Store) LookupByFingerprint(fp string) (*models.Article, error) {
	var article models.Article
	err := s.db.Where("content_fingerprint = ?", fp).First(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up fingerprint: %w", err)
	}
	return &article, nil
}
