package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopsight/backend/internal/domain"
	"github.com/shopsight/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	insights *usecase.InsightsService
}

// NewHandler creates a new HTTP handler
func NewHandler(insights *usecase.InsightsService) *Handler {
	return &Handler{insights: insights}
}

// fetchRequest is the request body for the insights endpoint
type fetchRequest struct {
	WebsiteURL string `json:"website_url" binding:"required"`
}

// Root returns a short usage hint
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"note":   `POST /api/v1/insights/fetch with {"website_url": "https://example.com"}`,
	})
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shopsight-backend",
		"version": "1.0.0",
	})
}

// FetchInsights runs the extraction pipeline for one storefront URL
func (h *Handler) FetchInsights(c *gin.Context) {
	if h.insights == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "insights service not configured",
		})
		return
	}

	var req fetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "website_url is required",
		})
		return
	}

	result, err := h.insights.Extract(c.Request.Context(), req.WebsiteURL)
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "website_url is required"})
	case errors.Is(err, domain.ErrUnreachable):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "extraction failed"})
	default:
		c.JSON(http.StatusOK, result)
	}
}
