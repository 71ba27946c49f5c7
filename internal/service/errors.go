package service

import (
	"errors"
	"fmt"

	"github.com/timmy/carbonbite/internal/reasoning"
)

// Failure shapes surfaced to callers of CarbonAnalysisService.
var (
	// ErrInvalidInput is returned before any pipeline work: empty dish name,
	// rejected image.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidDish means the reasoning provider did not recognize the dish.
	ErrInvalidDish = errors.New("invalid dish name")
	// ErrInternal covers provider failures, timeouts and unusable replies.
	ErrInternal = errors.New("internal failure")
)

// Pipeline stage names, as logged.
const (
	StageCacheCheck         = "cache_check"
	StageIdentityResolution = "identity_resolution"
	StageMetrics            = "metrics_estimate"
	StageIngredients        = "ingredient_extract"
	StageLCAMapping         = "lca_mapping"
	StageMerge              = "merge"
	StageCacheWrite         = "cache_write"
)

// StageError records why a stage produced no usable result.
type StageError struct {
	Stage  string
	Status reasoning.Status
	Detail string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Stage, e.Status, e.Detail)
}

// absent builds a StageError from an unusable result. A usable result that
// still fails domain validation is reported as empty with detail.
func absent(stage string, res reasoning.Result, detail string) *StageError {
	if res.Status == reasoning.StatusOK {
		return &StageError{Stage: stage, Status: reasoning.StatusEmpty, Detail: detail}
	}
	return &StageError{Stage: stage, Status: res.Status, Detail: res.Detail}
}

// classify maps a stage failure to ErrInvalidDish or ErrInternal. An empty
// reply from the metrics or ingredient stage means the provider did not
// recognize the dish. Everything else is internal.
func classify(err error) error {
	var se *StageError
	if errors.As(err, &se) && se.Status == reasoning.StatusEmpty &&
		(se.Stage == StageMetrics || se.Stage == StageIngredients) {
		return fmt.Errorf("%w: %w", ErrInvalidDish, err)
	}
	return fmt.Errorf("%w: %w", ErrInternal, err)
}
