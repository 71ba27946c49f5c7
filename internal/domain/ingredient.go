package domain

import "strings"

// Ingredient is one component of a dish. Names are lowercase.
type Ingredient struct {
	Name     string   `json:"ingredient_name"`
	WeightKg *float64 `json:"ingredient_weight_kg,omitempty"`
}

// DishIngredients is the ingredient breakdown of a dish. It is valid only with
// at least one ingredient.
type DishIngredients struct {
	Dish        string       `json:"dish"`
	Ingredients []Ingredient `json:"ingredients"`
}

// Clean lowercases and trims ingredient names and drops unnamed entries.
func (d *DishIngredients) Clean() {
	kept := d.Ingredients[:0]
	for _, ing := range d.Ingredients {
		ing.Name = strings.ToLower(strings.TrimSpace(ing.Name))
		if ing.Name == "" {
			continue
		}
		if ing.WeightKg != nil && *ing.WeightKg < 0 {
			ing.WeightKg = nil
		}
		kept = append(kept, ing)
	}
	d.Ingredients = kept
}

// Valid reports whether the breakdown has at least one ingredient.
func (d *DishIngredients) Valid() bool {
	return d != nil && len(d.Ingredients) > 0
}

// Names returns ingredient names in order.
func (d *DishIngredients) Names() []string {
	names := make([]string, len(d.Ingredients))
	for i, ing := range d.Ingredients {
		names[i] = ing.Name
	}
	return names
}

// TotalWeightKg sums the known ingredient weights.
func (d *DishIngredients) TotalWeightKg() float64 {
	var total float64
	for _, ing := range d.Ingredients {
		if ing.WeightKg != nil {
			total += *ing.WeightKg
		}
	}
	return total
}
