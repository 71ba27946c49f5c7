package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/timmy/carbonbite/internal/cache"
	"github.com/timmy/carbonbite/internal/config"
	"github.com/timmy/carbonbite/internal/imageinput"
	"github.com/timmy/carbonbite/internal/logger"
	"github.com/timmy/carbonbite/internal/reasoning"
	"github.com/timmy/carbonbite/internal/service"
	"github.com/timmy/carbonbite/internal/source"
)

func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "text",
		Output:      os.Stderr,
		ServiceName: "carbonbite-cli",
	})
	logger.SetDefaultLogger(appLogger)

	dish := flag.String("dish", "", "Dish name to analyze")
	imagePath := flag.String("image", "", "Photo of a dish to analyze")
	warmFile := flag.String("warm", "", "Text file of dish names to pre-compute into the cache")
	limit := flag.Int("limit", 0, "Maximum number of dishes to warm (0 = all)")
	servings := flag.Float64("servings", 1, "Scale the printed report to this many servings")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	if countSet(*dish, *imagePath, *warmFile) != 1 {
		fmt.Fprintln(os.Stderr, "exactly one of -dish, -image or -warm is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	store, _ := cache.NewStore(ctx, cfg.Cache, cfg.Database)
	defer store.Close()

	registry := reasoning.NewRegistry(cfg.Reasoning)
	deps := service.CarbonAnalysisDeps{Cache: store}
	if deps.Text, err = registry.Text(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize reasoning client")
	}
	if *imagePath != "" {
		if deps.Vision, err = registry.Vision(ctx); err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize vision client")
		}
	}
	analysis := service.NewCarbonAnalysisService(deps)

	switch {
	case *warmFile != "":
		warmup := service.NewWarmupService(analysis, &service.WarmupConfig{
			Workers:   cfg.Warmup.Workers,
			BatchSize: cfg.Warmup.BatchSize,
		})
		job, err := warmup.Run(ctx, source.NewFile(*warmFile), *limit)
		if err != nil {
			appLogger.WithError(err).Fatal("Warm-up failed")
		}
		printJSON(job)
		if job.Failed > 0 {
			os.Exit(1)
		}

	case *dish != "":
		out, err := analysis.AnalyzeDish(ctx, *dish)
		exitOnError(err)
		printOutcome(out, *servings)

	default:
		img, err := readImage(*imagePath, cfg.Image)
		if err != nil {
			appLogger.WithError(err).Fatal("Rejected image")
		}
		out, err := analysis.AnalyzeImage(ctx, img)
		exitOnError(err)
		printOutcome(out, *servings)
	}
}

func countSet(values ...string) int {
	n := 0
	for _, v := range values {
		if v != "" {
			n++
		}
	}
	return n
}

func readImage(path string, cfg config.ImageConfig) (*imageinput.Image, error) {
	validator := imageinput.NewValidator(cfg)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := imageinput.ReadLimited(f, validator.MaxBytes())
	if err != nil {
		return nil, err
	}
	return validator.Validate(data, mime.TypeByExtension(filepath.Ext(path)))
}

func exitOnError(err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, service.ErrInvalidDish):
		printJSON(map[string]string{"message": "Invalid Dish Name provided"})
		os.Exit(1)
	default:
		logger.Error("Estimate failed: %v", err)
		os.Exit(1)
	}
}

func printOutcome(out *service.Outcome, servings float64) {
	if out.Status == service.OutcomeNoDishDetected {
		printJSON(map[string]string{"message": "No Food Item/Dish Detected in Image"})
		return
	}
	report := out.Report
	if servings != 1 && servings > 0 {
		report = report.Scale(servings)
	}
	printJSON(map[string]interface{}{"dish_metrics": report, "cached": out.Cached})
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
