package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"qatar-standard/internal/config"
	"qatar-standard/internal/pipeline"

	"github.com/gin-gonic/gin"
)

// Runner is the pipeline surface the handler needs.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// GenerateHandler handles the generation endpoint used by the bot and the
// editorial desk.
type GenerateHandler struct {
	pipeline   Runner
	apiKey     string
	categories []config.Category
}

// NewGenerateHandler creates a new generate handler.
func NewGenerateHandler(p Runner, apiKey string, categories []config.Category) *GenerateHandler {
	return &GenerateHandler{pipeline: p, apiKey: apiKey, categories: categories}
}

// GenerateRequest is the POST /api/generate payload. Everything beyond the
// title is optional: caller titles override drafted ones, tweets feed the
// degradation path, and published_at defaults to now.
type GenerateRequest struct {
	Title     string `json:"title"`
	TitleAr   string `json:"title_ar"`
	TitleEn   string `json:"title_en"`
	SourceURL string `json:"source_url"`
	Context   string `json:"context"`
	Category  string `json:"category"`
	TweetAr   string `json:"tweet_ar"`
	TweetEn   string `json:"tweet_en"`
	Speaker   struct {
		Name  string `json:"name"`
		Title string `json:"title"`
	} `json:"speaker"`
	ImageURL    string     `json:"image_url"`
	VideoURL    string     `json:"video_url"`
	Source      string     `json:"source"`
	Tags        []string   `json:"tags"`
	PublishedAt *time.Time `json:"published_at"`
}

// Generate handles POST /api/generate.
func (h *GenerateHandler) Generate(c *gin.Context) {
	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	category := req.Category
	if !config.IsValidCategory(h.categories, category) {
		category = "general"
	}

	result, err := h.pipeline.Run(c.Request.Context(), pipeline.Request{
		Title:        req.Title,
		TitleAr:      req.TitleAr,
		TitleEn:      req.TitleEn,
		SourceURL:    req.SourceURL,
		Context:      req.Context,
		Category:     category,
		TweetAr:      req.TweetAr,
		TweetEn:      req.TweetEn,
		SpeakerName:  req.Speaker.Name,
		SpeakerTitle: req.Speaker.Title,
		ImageURL:     req.ImageURL,
		VideoURL:     req.VideoURL,
		Source:       req.Source,
		Tags:         req.Tags,
		PublishedAt:  req.PublishedAt,
	})
	if err != nil {
		log.Printf("❌ Generation failed for %q: %v", req.Title, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Generation failed"})
		return
	}

	if result.Duplicate {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"duplicate": true,
			"slug":      result.Article.Slug,
			"id":        result.Article.ID,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"slug":    result.Article.Slug,
		"id":      result.Article.ID,
	})
}

// authorized accepts the shared secret from X-API-Key or a Bearer header.
func (h *GenerateHandler) authorized(c *gin.Context) bool {
	key := c.GetHeader("X-API-Key")
	if key == "" {
		key = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	return key != "" && key == h.apiKey
}
