package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	cacheBackend  string
	cacheDegraded bool
}

// NewHealthHandler creates a health handler reporting the cache backend.
// degraded is true when the configured cache could not be opened.
func NewHealthHandler(cacheBackend string, degraded bool) *HealthHandler {
	return &HealthHandler{cacheBackend: cacheBackend, cacheDegraded: degraded}
}

// Health returns the health status of the service. A degraded cache still
// answers 200 because requests are served uncached.
func (h *HealthHandler) Health(c *gin.Context) {
	status := "ok"
	if h.cacheDegraded {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"cache": gin.H{
			"backend":  h.cacheBackend,
			"degraded": h.cacheDegraded,
		},
	})
}
