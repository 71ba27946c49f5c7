package api

import (
	"github.com/gin-gonic/gin"
	"github.com/timmy/carbonbite/internal/api/handler"
	"github.com/timmy/carbonbite/internal/api/middleware"
	"github.com/timmy/carbonbite/internal/config"
)

// Handlers groups the HTTP handlers mounted by SetupRouter. Admin may be nil.
type Handlers struct {
	Health   *handler.HealthHandler
	Estimate *handler.EstimateHandler
	Admin    *handler.AdminHandler
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(h Handlers, cfg config.ServerConfig, maxUpload int64) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	// Multipart bodies above this spill to temp files; the handler enforces the real limit.
	r.MaxMultipartMemory = maxUpload + 1<<20

	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS))

	r.GET("/health", h.Health.Health)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/estimate", h.Estimate.EstimateDish)
		v1.POST("/estimate/image", h.Estimate.EstimateImage)

		if h.Admin != nil {
			admin := v1.Group("/admin")
			admin.POST("/warmup", h.Admin.TriggerWarmup)
			admin.GET("/warmup/status", h.Admin.GetWarmupStatus)
		}
	}

	return r
}
