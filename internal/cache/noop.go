package cache

import (
	"context"

	"github.com/timmy/carbonbite/internal/domain"
)

// NoopStore never stores anything. It backs the none driver and degraded mode.
type NoopStore struct{}

func (NoopStore) Name() string { return "none" }

func (NoopStore) Get(context.Context, domain.DishName) (*domain.DishCarbonAnalysisReport, bool) {
	return nil, false
}

func (NoopStore) Set(context.Context, domain.DishName, *domain.DishCarbonAnalysisReport) {}

func (NoopStore) Close() error { return nil }
