package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"html"
	"net/http"
	"strconv"

	"qatar-standard/internal/articles"
	"qatar-standard/internal/auth"
	"qatar-standard/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/russross/blackfriday/v2"
	"gorm.io/gorm"
)

// ImageChecker verifies that an image URL serves bytes.
type ImageChecker interface {
	Reachable(ctx context.Context, imageURL string) bool
}

// AdminHandler serves the editorial endpoints behind session auth.
type AdminHandler struct {
	service  *articles.Service
	tokens   *auth.TokenManager
	checker  ImageChecker
	password string
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(service *articles.Service, tokens *auth.TokenManager, checker ImageChecker, password string) *AdminHandler {
	return &AdminHandler{
		service:  service,
		tokens:   tokens,
		checker:  checker,
		password: password,
	}
}

// Login handles POST /api/admin/auth.
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	token, err := h.tokens.Issue()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// RequireAuth is the middleware guarding the admin routes.
func (h *AdminHandler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.tokens.Verify(c.GetHeader("Authorization")); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// ListArticles handles GET /api/admin/articles with optional title search.
func (h *AdminHandler) ListArticles(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	q := c.Query("q")

	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var (
		list  []articlesList
		total int64
		err   error
	)
	if q != "" {
		raw, count, searchErr := h.service.Search(q, limit, offset)
		list, total, err = toList(raw), count, searchErr
	} else {
		raw, count, listErr := h.service.List(limit, offset, c.Query("category"))
		list, total, err = toList(raw), count, listErr
	}
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

// DeleteArticle handles DELETE /api/admin/articles?slug=...
func (h *AdminHandler) DeleteArticle(c *gin.Context) {
	slug := c.Query("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slug is required"})
		return
	}

	if err := h.service.Delete(slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete article"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateImage handles PATCH /api/admin/articles/:slug/image. A URL that
// fails the reachability probe is rejected rather than persisted broken.
func (h *AdminHandler) UpdateImage(c *gin.Context) {
	slug := c.Param("slug")

	var req struct {
		ImageURL string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_url is required"})
		return
	}

	if !h.checker.Reachable(c.Request.Context(), req.ImageURL) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Image URL is not reachable"})
		return
	}

	article, err := h.service.UpdateImage(slug, req.ImageURL)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update image"})
		return
	}
	c.JSON(http.StatusOK, article)
}

// Preview handles GET /api/admin/articles/:slug/preview, rendering the body
// to HTML for editorial review. lang=en selects the English body.
func (h *AdminHandler) Preview(c *gin.Context) {
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

	title, body, dir := article.TitleAr, article.BodyAr, "rtl"
	if c.Query("lang") == "en" {
		title, body, dir = article.TitleEn, article.BodyEn, "ltr"
	}

	rendered := blackfriday.Run([]byte(body), blackfriday.WithExtensions(blackfriday.CommonExtensions))
	title = html.EscapeString(title)

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, `<!DOCTYPE html>
<html dir="%s">
<head><meta charset="UTF-8"><title>%s</title></head>
<body><h1>%s</h1>%s</body>
</html>`, dir, title, title, string(rendered))
}

// articlesList is the trimmed row shape for the admin table.
type articlesList struct {
	Slug      string `json:"slug"`
	TitleAr   string `json:"title_ar"`
	TitleEn   string `json:"title_en"`
	Category  string `json:"category"`
	Source    string `json:"source"`
	ViewCount int    `json:"view_count"`
	HasImage  bool   `json:"has_image"`
}

func toList(raw []models.Article) []articlesList {
	out := make([]articlesList, 0, len(raw))
	for _, a := range raw {
		out = append(out, articlesList{
			Slug:      a.Slug,
			TitleAr:   a.TitleAr,
			TitleEn:   a.TitleEn,
			Category:  a.Category,
			Source:    a.Source,
			ViewCount: a.ViewCount,
			HasImage:  a.ImageURL != nil,
		})
	}
	return out
}
