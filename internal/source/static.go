package source

import (
	"context"
	"fmt"
	"strconv"
)

// Static serves a fixed in-memory list, such as the body of an admin request.
type Static struct {
	id    string
	items []DishItem
}

// NewStatic wraps names. Blank names are kept and left for the caller to reject.
func NewStatic(id string, names []string) *Static {
	items := make([]DishItem, len(names))
	for i, n := range names {
		items[i] = DishItem{Name: n, Line: i + 1}
	}
	return &Static{id: id, items: items}
}

func (s *Static) GetSourceID() string { return "static:" + s.id }

func (s *Static) FetchBatch(_ context.Context, cursor string, limit int) ([]DishItem, string, error) {
	return page(s.items, cursor, limit)
}

// page slices items using a numeric index cursor.
func page(items []DishItem, cursor string, limit int) ([]DishItem, string, error) {
	start := 0
	if cursor != "" {
		var err error
		start, err = strconv.Atoi(cursor)
		if err != nil || start < 0 {
			return nil, "", fmt.Errorf("invalid cursor %q", cursor)
		}
	}
	if start >= len(items) {
		return []DishItem{}, "", nil
	}
	if limit <= 0 {
		limit = len(items)
	}

	end := start + limit
	if end > len(items) {
		end = len(items)
	}

	next := ""
	if end < len(items) {
		next = strconv.Itoa(end)
	}
	return items[start:end], next, nil
}
