package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/timmy/carbonbite/internal/domain"
	"github.com/timmy/carbonbite/internal/imageinput"
	"github.com/timmy/carbonbite/internal/logger"
	"github.com/timmy/carbonbite/internal/service"
)

// Response messages kept stable for existing clients.
const (
	MessageInvalidDish = "Invalid Dish Name provided"
	MessageNoDish      = "No Food Item/Dish Detected in Image"
	MessageInternal    = "Internal Server Error"
)

// Analyzer is the pipeline behind the estimate endpoints.
type Analyzer interface {
	AnalyzeDish(ctx context.Context, raw string) (*service.Outcome, error)
	AnalyzeImage(ctx context.Context, img *imageinput.Image) (*service.Outcome, error)
}

// EstimateHandler serves dish carbon estimates.
type EstimateHandler struct {
	analyzer  Analyzer
	validator *imageinput.Validator
}

// NewEstimateHandler creates a new estimate handler.
// Parameters:
//   - analyzer: carbon analysis pipeline.
//   - validator: upload checks for the image endpoint.
// Returns:
//   - *EstimateHandler: initialized handler.
func NewEstimateHandler(analyzer Analyzer, validator *imageinput.Validator) *EstimateHandler {
	return &EstimateHandler{analyzer: analyzer, validator: validator}
}

// EstimateRequest is the optional JSON body of POST /api/v1/estimate.
type EstimateRequest struct {
	Dish string `json:"dish"`
}

// EstimateResponse wraps a report. Servings is set when the report was scaled.
type EstimateResponse struct {
	DishMetrics *domain.DishCarbonAnalysisReport `json:"dish_metrics"`
	Servings    float64                          `json:"servings,omitempty"`
}

// EstimateDish handles POST /api/v1/estimate?dish=...
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *EstimateHandler) EstimateDish(c *gin.Context) {
	ctx := c.Request.Context()

	dish := c.Query("dish")
	if dish == "" && c.Request.ContentLength != 0 {
		var req EstimateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
		dish = req.Dish
	}

	servings, ok := parseServings(c.Query("servings"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "servings must be a positive number"})
		return
	}

	out, err := h.analyzer.AnalyzeDish(ctx, dish)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "dish is required"})
		return
	case errors.Is(err, service.ErrInvalidDish):
		c.JSON(http.StatusOK, gin.H{"message": MessageInvalidDish})
		return
	case err != nil:
		logger.CtxError(ctx, "Dish estimate failed: dish=%q, error=%v", dish, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": MessageInternal})
		return
	}

	h.writeReport(c, out, servings)
}

// EstimateImage handles POST /api/v1/estimate/image with a multipart "file".
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *EstimateHandler) EstimateImage(c *gin.Context) {
	ctx := c.Request.Context()

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return
	}
	if header.Size > h.validator.MaxBytes() {
		c.JSON(http.StatusBadRequest, gin.H{"error": imageinput.ErrTooLarge.Error()})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	defer f.Close()

	data, err := imageinput.ReadLimited(f, h.validator.MaxBytes())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	img, err := h.validator.Validate(data, header.Header.Get("Content-Type"))
	if err != nil {
		logger.CtxWarn(ctx, "Rejected upload: filename=%s, size=%d, error=%v", header.Filename, len(data), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	servings, ok := parseServings(c.Query("servings"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "servings must be a positive number"})
		return
	}

	out, err := h.analyzer.AnalyzeImage(ctx, img)
	switch {
	case errors.Is(err, service.ErrInvalidDish):
		c.JSON(http.StatusOK, gin.H{"message": MessageNoDish})
		return
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		logger.CtxError(ctx, "Image estimate failed: md5=%s, error=%v", img.MD5, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": MessageInternal})
		return
	}

	if out.ImageKey != "" {
		c.Header("X-Image-Key", out.ImageKey)
	}
	if out.Status == service.OutcomeNoDishDetected {
		c.JSON(http.StatusOK, gin.H{"message": MessageNoDish})
		return
	}
	h.writeReport(c, out, servings)
}

func (h *EstimateHandler) writeReport(c *gin.Context, out *service.Outcome, servings float64) {
	if out.Cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}

	resp := EstimateResponse{DishMetrics: out.Report}
	if servings != 1 {
		resp.DishMetrics = out.Report.Scale(servings)
		resp.Servings = servings
	}
	c.JSON(http.StatusOK, resp)
}

// parseServings reads the optional serving multiplier. Empty means 1.
func parseServings(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 || v > 100 {
		return 0, false
	}
	return v, true
}
