package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"qatar-standard/internal/articles"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ArticlesHandler serves the public read endpoints.
type ArticlesHandler struct {
	service *articles.Service
}

// NewArticlesHandler creates a new articles handler.
func NewArticlesHandler(service *articles.Service) *ArticlesHandler {
	return &ArticlesHandler{service: service}
}

// List handles GET /api/articles.
func (h *ArticlesHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	category := c.Query("category")

	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	list, total, err := h.service.List(limit, offset, category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve articles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": list,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetBySlug handles GET /api/articles/:slug. Reads count as views.
func (h *ArticlesHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")

	article, err := h.service.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve article"})
		return
	}

	if err := h.service.IncrementViews(slug); err != nil {
		log.Printf("⚠️ Failed to increment views for %s: %v", slug, err)
	}

	c.JSON(http.StatusOK, article)
}
