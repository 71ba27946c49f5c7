package service

import (
	"context"
	"time"

	"github.com/timmy/carbonbite/internal/domain"
	"github.com/timmy/carbonbite/internal/logger"
	"github.com/timmy/carbonbite/internal/prompts"
	"github.com/timmy/carbonbite/internal/reasoning"
)

// MetricsEstimator asks for whole-dish impact metrics.
type MetricsEstimator struct {
	client reasoning.Client
}

func NewMetricsEstimator(client reasoning.Client) *MetricsEstimator {
	return &MetricsEstimator{client: client}
}

// Estimate returns normalized metrics for dish. An all-null reply is absent,
// the same as a failed call.
func (e *MetricsEstimator) Estimate(ctx context.Context, dish domain.DishName) (*domain.DishMetrics, error) {
	start := time.Now()
	res := e.client.Invoke(ctx, reasoning.Request{
		System:     prompts.MetricsSystemPrompt,
		User:       prompts.MetricsUserPrompt(dish.String()),
		Schema:     dishMetricsSchema,
		SchemaName: "dish_metrics",
	})
	entry := logger.With(logger.Fields{
		logger.FieldStage: StageMetrics,
		logger.FieldDish:  dish.String(),
	}).WithElapsed(start).WithStatus(res.Status.String())

	metrics, ok := reasoning.Decode[domain.DishMetrics](res)
	if !ok || metrics.IsEmpty() {
		entry.Warn(ctx, "Metrics estimate unusable: %s", res.Detail)
		return nil, absent(StageMetrics, res, "")
	}

	if metrics.ImpactRating != nil && !metrics.ImpactRating.Valid() {
		metrics.ImpactRating = nil
	}
	metrics.Normalize(dish)

	entry.Debug(ctx, "Metrics estimated")
	return &metrics, nil
}
