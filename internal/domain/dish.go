// Package domain holds the dish carbon analysis data model.
package domain

import "strings"

// DishName is a dish identity normalized by NormalizeDishName. It is the cache key.
type DishName string

// NormalizeDishName trims surrounding whitespace and lowercases s.
func NormalizeDishName(s string) DishName {
	return DishName(strings.ToLower(strings.TrimSpace(s)))
}

func (d DishName) String() string { return string(d) }

// IsZero reports whether the name is empty after normalization.
func (d DishName) IsZero() bool { return d == "" }
