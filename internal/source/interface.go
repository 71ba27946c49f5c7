// Package source supplies lists of dish names for cache warm-up runs.
package source

import "context"

// DishItem is one dish name to analyze.
type DishItem struct {
	Name string
	// Line is the 1-based position in the source, 0 when not applicable.
	Line int
}

// Source yields dish names in cursor-addressed batches.
type Source interface {
	// GetSourceID returns a stable identifier used in logs and job records.
	GetSourceID() string

	// FetchBatch returns up to limit items after cursor. An empty nextCursor
	// means the source is exhausted.
	FetchBatch(ctx context.Context, cursor string, limit int) (items []DishItem, nextCursor string, err error)
}
