package handlers

import (
	"net/http"

	"qatar-standard/internal/quota"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves liveness and quota status.
type HealthHandler struct {
	tracker *quota.Tracker
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(tracker *quota.Tracker) *HealthHandler {
	return &HealthHandler{tracker: tracker}
}

// HealthCheck handles GET /health.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "qatar-standard",
		"quota": gin.H{
			quota.BucketResearchSearch: h.tracker.Used(quota.BucketResearchSearch),
			quota.BucketImageSearch:    h.tracker.Used(quota.BucketImageSearch),
		},
	})
}
