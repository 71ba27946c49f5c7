package domain

import "strings"

// IngredientCarbonFootprint is the life-cycle footprint of one ingredient.
type IngredientCarbonFootprint struct {
	IngredientName        string   `json:"ingredient_name"`
	MatchedIngredient     *string  `json:"matched_ingredient"`
	CarbonFootprintKgCO2e *float64 `json:"carbon_footprint_kg_co2e"`
	FarmingKgCO2e         *float64 `json:"farming_footprint_kg_co2e"`
	PackagingKgCO2e       *float64 `json:"packaging_footprint_kg_co2e"`
	ProcessingKgCO2e      *float64 `json:"processing_footprint_kg_co2e"`
	RetailKgCO2e          *float64 `json:"retail_footprint_kg_co2e"`
	TransportationKgCO2e  *float64 `json:"transportation_footprint_kg_co2e"`
	MatchConfidence       *float64 `json:"match_confidence"`
	Matched               *bool    `json:"matched"`
	LCASource             *string  `json:"lca_source"`
}

// StageTotal sums the five stage footprints that are present.
func (f IngredientCarbonFootprint) StageTotal() float64 {
	var total float64
	for _, v := range []*float64{
		f.FarmingKgCO2e, f.PackagingKgCO2e, f.ProcessingKgCO2e, f.RetailKgCO2e, f.TransportationKgCO2e,
	} {
		if v != nil {
			total += *v
		}
	}
	return total
}

// IngredientCarbonResponse is the LCA mapping of an ingredient list.
// Unmatched ingredients may be missing from Results.
type IngredientCarbonResponse struct {
	Results []IngredientCarbonFootprint `json:"results"`
}

// Clean normalizes names, clamps match confidence to [0,1] and drops unnamed rows.
func (r *IngredientCarbonResponse) Clean() {
	kept := r.Results[:0]
	for _, f := range r.Results {
		f.IngredientName = strings.ToLower(strings.TrimSpace(f.IngredientName))
		if f.IngredientName == "" {
			continue
		}
		if f.MatchConfidence != nil {
			c := clamp(*f.MatchConfidence, 0, 1)
			f.MatchConfidence = &c
		}
		kept = append(kept, f)
	}
	r.Results = kept
}

// Valid reports whether at least one footprint is present.
func (r *IngredientCarbonResponse) Valid() bool {
	return r != nil && len(r.Results) > 0
}
