package service

import (
	"context"
	"fmt"
	"time"

	"github.com/timmy/carbonbite/internal/cache"
	"github.com/timmy/carbonbite/internal/domain"
	"github.com/timmy/carbonbite/internal/imageinput"
	"github.com/timmy/carbonbite/internal/logger"
	"github.com/timmy/carbonbite/internal/reasoning"
	"github.com/timmy/carbonbite/internal/storage"
	"golang.org/x/sync/errgroup"
)

// OutcomeStatus distinguishes a finished report from a photo with no dish.
type OutcomeStatus string

const (
	OutcomeReport         OutcomeStatus = "report"
	OutcomeNoDishDetected OutcomeStatus = "no_dish_detected"
)

// Outcome is a successful orchestration. Report is set only for OutcomeReport.
type Outcome struct {
	Status OutcomeStatus
	Dish   domain.DishName
	Report *domain.DishCarbonAnalysisReport
	// Cached is true when the report came from the cache store.
	Cached bool
	// ImageKey is the archive key of the uploaded photo, if archived.
	ImageKey string
}

// CarbonAnalysisDeps are the collaborators of CarbonAnalysisService.
type CarbonAnalysisDeps struct {
	Cache  cache.Store
	Text   reasoning.Client
	Vision reasoning.Client
	// Archive is optional.
	Archive *storage.Archive
}

// CarbonAnalysisService runs the dish analysis pipeline:
//
//	cache check -> identity (image only) -> cache check -> metrics || ingredients
//	-> lca mapping -> merge -> cache write
//
// A request yields a complete report, a no-dish outcome, or an error wrapping
// ErrInvalidInput, ErrInvalidDish or ErrInternal. Nothing partial is returned
// or cached.
type CarbonAnalysisService struct {
	cache       cache.Store
	resolver    *DishIdentityResolver
	metrics     *MetricsEstimator
	ingredients *IngredientExtractor
	lca         *LCAMapper
	archive     *storage.Archive
}

// NewCarbonAnalysisService creates the orchestrator.
// Parameters:
//   - deps: cache store and reasoning clients. A nil Cache runs uncached and a
//     nil Vision client disables the image path.
//
// Returns:
//   - *CarbonAnalysisService: ready to serve concurrent requests.
func NewCarbonAnalysisService(deps CarbonAnalysisDeps) *CarbonAnalysisService {
	store := deps.Cache
	if store == nil {
		store = cache.NoopStore{}
	}
	return &CarbonAnalysisService{
		cache:       store,
		resolver:    NewDishIdentityResolver(deps.Vision),
		metrics:     NewMetricsEstimator(deps.Text),
		ingredients: NewIngredientExtractor(deps.Text),
		lca:         NewLCAMapper(deps.Text),
		archive:     deps.Archive,
	}
}

// CacheBackend names the cache store in use.
func (s *CarbonAnalysisService) CacheBackend() string {
	return s.cache.Name()
}

// AnalyzeDish analyzes a dish given by name.
func (s *CarbonAnalysisService) AnalyzeDish(ctx context.Context, raw string) (*Outcome, error) {
	dish, err := s.resolver.FromText(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: empty dish name", ErrInvalidInput)
	}
	return s.analyze(logger.SetDish(ctx, dish.String()), dish, time.Now())
}

// AnalyzeImage identifies the dish in img, then analyzes it. A photo without a
// recognizable dish yields OutcomeNoDishDetected.
func (s *CarbonAnalysisService) AnalyzeImage(ctx context.Context, img *imageinput.Image) (*Outcome, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidInput)
	}
	start := time.Now()

	imageKey := s.archive.Save(ctx, img)

	dish, detected, err := s.resolver.FromImage(ctx, img)
	if err != nil {
		return nil, s.fail(ctx, StageIdentityResolution, start, err)
	}
	if !detected {
		return &Outcome{Status: OutcomeNoDishDetected, ImageKey: imageKey}, nil
	}

	out, err := s.analyze(logger.SetDish(ctx, dish.String()), dish, start)
	if out != nil {
		out.ImageKey = imageKey
	}
	return out, err
}

func (s *CarbonAnalysisService) analyze(ctx context.Context, dish domain.DishName, start time.Time) (*Outcome, error) {
	if report, ok := s.cache.Get(ctx, dish); ok {
		logger.With(logger.Fields{
			logger.FieldStage: StageCacheCheck,
			"backend":         s.cache.Name(),
		}).WithElapsed(start).WithStatus("hit").Info(ctx, "Serving cached report")
		return &Outcome{Status: OutcomeReport, Dish: dish, Report: report, Cached: true}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, s.fail(ctx, StageCacheCheck, start, err)
	}

	metrics, ingredients, err := s.estimate(ctx, dish)
	if err != nil {
		return nil, s.fail(ctx, stageOf(err, StageMetrics), start, err)
	}

	lca, err := s.lca.Map(ctx, ingredients.Ingredients)
	if err != nil {
		return nil, s.fail(ctx, StageLCAMapping, start, err)
	}

	report := &domain.DishCarbonAnalysisReport{
		Metrics:     *metrics,
		Ingredients: *ingredients,
		LCA:         *lca,
	}
	if missing := report.Missing(); len(missing) > 0 {
		logger.With(logger.Fields{
			logger.FieldStage: StageMerge,
			"missing":         missing,
		}).Debug(ctx, "Some ingredients have no footprint")
	}

	s.cache.Set(ctx, dish, report)

	logger.With(logger.Fields{
		logger.FieldStage: StageCacheWrite,
		"ingredients":     len(report.Ingredients.Ingredients),
		"footprints":      len(report.LCA.Results),
	}).WithElapsed(start).WithStatus("computed").Info(ctx, "Dish analysis completed")

	return &Outcome{Status: OutcomeReport, Dish: dish, Report: report}, nil
}

// estimate runs the metrics and ingredient calls concurrently and waits for
// both. The first failure cancels the other call.
func (s *CarbonAnalysisService) estimate(ctx context.Context, dish domain.DishName) (*domain.DishMetrics, *domain.DishIngredients, error) {
	var (
		metrics     *domain.DishMetrics
		ingredients *domain.DishIngredients
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.metrics.Estimate(gctx, dish)
		if err != nil {
			return err
		}
		metrics = m
		return nil
	})
	g.Go(func() error {
		ing, err := s.ingredients.Extract(gctx, dish)
		if err != nil {
			return err
		}
		ingredients = ing
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return metrics, ingredients, nil
}

func (s *CarbonAnalysisService) fail(ctx context.Context, stage string, start time.Time, err error) error {
	out := classify(err)
	logger.With(logger.Fields{
		logger.FieldStage: stage,
		logger.FieldCause: err.Error(),
	}).WithElapsed(start).WithStatus("failed").Warn(ctx, "Dish analysis failed")
	return out
}

func stageOf(err error, fallback string) string {
	if se, ok := err.(*StageError); ok {
		return se.Stage
	}
	return fallback
}
