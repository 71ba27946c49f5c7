package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/carbonbite/internal/api"
	"github.com/timmy/carbonbite/internal/api/handler"
	"github.com/timmy/carbonbite/internal/cache"
	"github.com/timmy/carbonbite/internal/config"
	"github.com/timmy/carbonbite/internal/imageinput"
	"github.com/timmy/carbonbite/internal/logger"
	"github.com/timmy/carbonbite/internal/reasoning"
	"github.com/timmy/carbonbite/internal/service"
	"github.com/timmy/carbonbite/internal/source"
	"github.com/timmy/carbonbite/internal/storage"
)

func main() {
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// CONFIG_PATH overrides the default config location in deployments
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, degraded := cache.NewStore(ctx, cfg.Cache, cfg.Database)
	defer store.Close()
	if sqlStore, ok := store.(*cache.SQLStore); ok {
		go purgeExpired(ctx, sqlStore, cfg.Cache.TTL)
	}

	registry := reasoning.NewRegistry(cfg.Reasoning)
	textClient, err := registry.Text(ctx)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize reasoning client")
	}
	visionClient, err := registry.Vision(ctx)
	if err != nil {
		appLogger.WithError(err).Warn("Vision provider unavailable, image estimates will fail")
		visionClient = nil
	}

	archive, err := storage.NewArchiveFromConfig(ctx, cfg.Storage)
	if err != nil {
		appLogger.WithError(err).Warn("Image archive unavailable, uploads will not be stored")
		archive = nil
	}

	analysis := service.NewCarbonAnalysisService(service.CarbonAnalysisDeps{
		Cache:   store,
		Text:    textClient,
		Vision:  visionClient,
		Archive: archive,
	})
	warmup := service.NewWarmupService(analysis, &service.WarmupConfig{
		Workers:   cfg.Warmup.Workers,
		BatchSize: cfg.Warmup.BatchSize,
	})

	sources := map[string]source.Source{}
	if cfg.Warmup.DishList != "" {
		sources["default"] = source.NewFile(cfg.Warmup.DishList)
	}

	validator := imageinput.NewValidator(cfg.Image)
	router := api.SetupRouter(api.Handlers{
		Health:   handler.NewHealthHandler(store.Name(), degraded),
		Estimate: handler.NewEstimateHandler(analysis, validator),
		Admin:    handler.NewAdminHandler(ctx, warmup, sources),
	}, cfg.Server, validator.MaxBytes())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port":     cfg.Server.Port,
			"mode":     cfg.Server.Mode,
			"cache":    store.Name(),
			"provider": cfg.Reasoning.Provider,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}

// purgeExpired drops expired report rows once per TTL until ctx is done.
func purgeExpired(ctx context.Context, s *cache.SQLStore, every time.Duration) {
	if every <= 0 {
		every = cache.DefaultTTL
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Purge(ctx)
			if err != nil {
				logger.CtxWarn(ctx, "Failed to purge expired cache rows: %v", err)
				continue
			}
			if removed > 0 {
				logger.With(logger.Fields{logger.FieldComponent: "cache"}).
					WithCount(int(removed)).
					Info(ctx, "Purged expired cache rows")
			}
		}
	}
}
