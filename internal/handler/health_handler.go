package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invex/internal/config"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	docint *config.DocIntConfig
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(docint *config.DocIntConfig) *HealthHandler {
	return &HealthHandler{docint: docint}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
// The service is not ready until the analysis service is configured.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.docint.Endpoint == "" || h.docint.APIKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "analysis service not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
