// Package cache stores analysis reports by normalized dish name.
//
// Stores never fail the caller: read errors and undecodable values are
// misses, and write errors are logged and dropped. There is no locking
// across instances, so the last write for a key wins.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/timmy/carbonbite/internal/domain"
	"github.com/timmy/carbonbite/internal/logger"
)

// DefaultTTL is the lifetime of a cached report.
const DefaultTTL = time.Hour

// Store is a report cache with one TTL for every entry.
type Store interface {
	Get(ctx context.Context, key domain.DishName) (*domain.DishCarbonAnalysisReport, bool)
	Set(ctx context.Context, key domain.DishName, report *domain.DishCarbonAnalysisReport)
	// Name identifies the backend in logs and health output.
	Name() string
	Close() error
}

func encode(report *domain.DishCarbonAnalysisReport) ([]byte, error) {
	return json.Marshal(report)
}

func decode(data []byte) (*domain.DishCarbonAnalysisReport, error) {
	var report domain.DishCarbonAnalysisReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func logMiss(ctx context.Context, backend string, key domain.DishName, cause string, err error) {
	logger.With(logger.Fields{
		logger.FieldComponent: "cache",
		"backend":             backend,
		logger.FieldDish:      key.String(),
		logger.FieldCause:     cause,
	}).Warn(ctx, "Cache read treated as miss: %v", err)
}

func logWriteFailure(ctx context.Context, backend string, key domain.DishName, err error) {
	logger.With(logger.Fields{
		logger.FieldComponent: "cache",
		"backend":             backend,
		logger.FieldDish:      key.String(),
	}).Warn(ctx, "Cache write dropped: %v", err)
}
