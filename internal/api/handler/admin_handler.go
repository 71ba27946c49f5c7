package handler

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/timmy/carbonbite/internal/domain"
	"github.com/timmy/carbonbite/internal/logger"
	"github.com/timmy/carbonbite/internal/service"
	"github.com/timmy/carbonbite/internal/source"
)

// Warmer runs cache warm-up jobs.
type Warmer interface {
	Start(ctx context.Context, src source.Source, limit int) (*domain.WarmupJob, error)
	Job(id string) (*domain.WarmupJob, error)
	Latest() *domain.WarmupJob
}

// AdminHandler handles admin operations.
type AdminHandler struct {
	warmup  Warmer
	sources map[string]source.Source
	// jobCtx outlives individual requests so background jobs keep running.
	jobCtx context.Context
}

// NewAdminHandler creates a new admin handler.
// Parameters:
//   - jobCtx: context for background jobs, cancelled on shutdown.
//   - warmup: warm-up service instance.
//   - sources: named dish lists selectable by the request.
// Returns:
//   - *AdminHandler: initialized handler.
func NewAdminHandler(jobCtx context.Context, warmup Warmer, sources map[string]source.Source) *AdminHandler {
	if sources == nil {
		sources = map[string]source.Source{}
	}
	return &AdminHandler{warmup: warmup, sources: sources, jobCtx: jobCtx}
}

// WarmupRequest names either a configured source or an inline dish list.
type WarmupRequest struct {
	Source string   `json:"source"`
	Dishes []string `json:"dishes" binding:"max=1000"`
	Limit  int      `json:"limit" binding:"min=0,max=10000"`
}

// WarmupResponse reports the accepted job.
type WarmupResponse struct {
	Message string            `json:"message"`
	Job     *domain.WarmupJob `json:"job"`
}

// TriggerWarmup handles POST /api/v1/admin/warmup.
func (h *AdminHandler) TriggerWarmup(c *gin.Context) {
	ctx := c.Request.Context()

	var req WarmupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.CtxWarn(ctx, "Invalid warm-up request: client_ip=%s, error=%v", c.ClientIP(), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var src source.Source
	switch {
	case len(req.Dishes) > 0:
		src = source.NewStatic(uuid.New().String()[:8], req.Dishes)
	case req.Source != "":
		var ok bool
		if src, ok = h.sources[req.Source]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown source: " + req.Source, "sources": h.sourceNames()})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "either dishes or source is required", "sources": h.sourceNames()})
		return
	}

	job, err := h.warmup.Start(h.jobCtx, src, req.Limit)
	if errors.Is(err, service.ErrWarmupRunning) {
		logger.CtxWarn(ctx, "Warm-up request rejected: already running, client_ip=%s", c.ClientIP())
		c.JSON(http.StatusConflict, gin.H{"error": "Warm-up is already running"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logger.CtxInfo(ctx, "Warm-up started: job=%s, source=%s, limit=%d", job.ID, job.Source, req.Limit)
	c.JSON(http.StatusAccepted, WarmupResponse{Message: "Warm-up started", Job: job})
}

// GetWarmupStatus handles GET /api/v1/admin/warmup/status. Without ?id= it
// reports the most recent job.
func (h *AdminHandler) GetWarmupStatus(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		job, err := h.warmup.Job(id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, job)
		return
	}

	job := h.warmup.Latest()
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no warm-up has run"})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *AdminHandler) sourceNames() []string {
	names := make([]string, 0, len(h.sources))
	for name := range h.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
