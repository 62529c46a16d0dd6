package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Article is the durable unit of content: one bilingual news story.
type Article struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Slug string    `json:"slug" db:"slug" gorm:"uniqueIndex;not null"`

	// ContentFingerprint deduplicates submissions independent of wording.
	// Unique when non-null; a second write with the same fingerprint must
	// resolve to the existing row.
	ContentFingerprint *string `json:"content_fingerprint,omitempty" db:"content_fingerprint" gorm:"uniqueIndex"`
	SourceURL          *string `json:"source_url,omitempty" db:"source_url" gorm:"index"`

	// Bilingual content. Excerpts are always derived from the bodies.
	TitleAr   string `json:"title_ar" db:"title_ar" gorm:"not null"`
	TitleEn   string `json:"title_en" db:"title_en"`
	BodyAr    string `json:"body_ar" db:"body_ar" gorm:"type:text;not null"`
	BodyEn    string `json:"body_en" db:"body_en" gorm:"type:text"`
	ExcerptAr string `json:"excerpt_ar" db:"excerpt_ar"`
	ExcerptEn string `json:"excerpt_en" db:"excerpt_en"`

	Category string         `json:"category" db:"category" gorm:"default:general;index"`
	Tags     pq.StringArray `json:"tags,omitempty" db:"tags" gorm:"type:text[]"`

	// Provenance
	Source       string  `json:"source" db:"source" gorm:"default:manual"`
	TweetAr      *string `json:"tweet_ar,omitempty" db:"tweet_ar"`
	TweetEn      *string `json:"tweet_en,omitempty" db:"tweet_en"`
	SpeakerName  *string `json:"speaker_name,omitempty" db:"speaker_name"`
	SpeakerTitle *string `json:"speaker_title,omitempty" db:"speaker_title"`

	// Media. ImageURL is either null or a URL that passed the reachability
	// check at write time.
	ImageURL *string `json:"image_url,omitempty" db:"image_url"`
	VideoURL *string `json:"video_url,omitempty" db:"video_url"`

	ViewCount int `json:"view_count" db:"view_count" gorm:"default:0"`

	PublishedAt time.Time  `json:"published_at" db:"published_at" gorm:"index"`
	TweetedAt   *time.Time `json:"tweeted_at,omitempty" db:"tweeted_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
}

// Article sources accepted by the generate endpoint; anything else is
// normalized to SourceManual.
const (
	SourceManual = "manual"
	SourceBot    = "bot"
	SourceDesk   = "desk"
)

// TableName sets the table name for the Article model
func (Article) TableName() string {
	return "articles"
}
