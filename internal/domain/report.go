package domain

// DishCarbonAnalysisReport is the merged analysis of one dish. It is the unit
// of caching and of the API response, and is not mutated after construction.
type DishCarbonAnalysisReport struct {
	Metrics     DishMetrics              `json:"metrics"`
	Ingredients DishIngredients          `json:"ingredients"`
	LCA         IngredientCarbonResponse `json:"lca"`
}

// FootprintFor returns the LCA entry for an ingredient. A missing entry means
// the footprint is unknown.
func (r *DishCarbonAnalysisReport) FootprintFor(ingredient string) (IngredientCarbonFootprint, bool) {
	for _, f := range r.LCA.Results {
		if f.IngredientName == ingredient {
			return f, true
		}
	}
	return IngredientCarbonFootprint{}, false
}

// Missing lists ingredients with no LCA entry.
func (r *DishCarbonAnalysisReport) Missing() []string {
	var missing []string
	for _, ing := range r.Ingredients.Ingredients {
		if _, ok := r.FootprintFor(ing.Name); !ok {
			missing = append(missing, ing.Name)
		}
	}
	return missing
}

// Scale returns a copy of the report with weights and footprints multiplied by
// servings. Ratings are per serving and stay unchanged.
func (r *DishCarbonAnalysisReport) Scale(servings float64) *DishCarbonAnalysisReport {
	out := &DishCarbonAnalysisReport{
		Metrics: r.Metrics,
		Ingredients: DishIngredients{
			Dish:        r.Ingredients.Dish,
			Ingredients: make([]Ingredient, len(r.Ingredients.Ingredients)),
		},
		LCA: IngredientCarbonResponse{Results: make([]IngredientCarbonFootprint, len(r.LCA.Results))},
	}
	out.Metrics.EstimatedCarbonKg = scaled(r.Metrics.EstimatedCarbonKg, servings)
	out.Metrics.ServingSizeG = scaled(r.Metrics.ServingSizeG, servings)
	out.Metrics.CarMilesEquivalent = scaled(r.Metrics.CarMilesEquivalent, servings)

	for i, ing := range r.Ingredients.Ingredients {
		ing.WeightKg = scaled(ing.WeightKg, servings)
		out.Ingredients.Ingredients[i] = ing
	}
	for i, f := range r.LCA.Results {
		f.CarbonFootprintKgCO2e = scaled(f.CarbonFootprintKgCO2e, servings)
		f.FarmingKgCO2e = scaled(f.FarmingKgCO2e, servings)
		f.PackagingKgCO2e = scaled(f.PackagingKgCO2e, servings)
		f.ProcessingKgCO2e = scaled(f.ProcessingKgCO2e, servings)
		f.RetailKgCO2e = scaled(f.RetailKgCO2e, servings)
		f.TransportationKgCO2e = scaled(f.TransportationKgCO2e, servings)
		out.LCA.Results[i] = f
	}
	return out
}

func scaled(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	return Float(*v * factor)
}
