package domain

import (
	"encoding/json"
	"math"
	"testing"
)

func TestNormalizeDishName(t *testing.T) {
	tests := []struct {
		in   string
		want DishName
	}{
		{"Chicken Biryani ", "chicken biryani"},
		{"chicken biryani", "chicken biryani"},
		{" CHICKEN BIRYANI", "chicken biryani"},
		{"\tPizza\n", "pizza"},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeDishName(tt.in); got != tt.want {
				t.Errorf("NormalizeDishName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRatingFor(t *testing.T) {
	tests := []struct {
		kg   float64
		want ImpactRating
	}{
		{0, RatingA},
		{0.49, RatingA},
		{0.5, RatingB},
		{1.2, RatingB},
		{1.49, RatingB},
		{1.5, RatingC},
		{2.49, RatingC},
		{2.5, RatingD},
		{4.0, RatingD},
		{4.01, RatingE},
		{12, RatingE},
	}
	for _, tt := range tests {
		if got := RatingFor(tt.kg); got != tt.want {
			t.Errorf("RatingFor(%v) = %s, want %s", tt.kg, got, tt.want)
		}
	}
}

func TestCarMilesFor(t *testing.T) {
	if got := CarMilesFor(1.2); math.Abs(got-2.88) > 1e-9 {
		t.Errorf("CarMilesFor(1.2) = %v, want 2.88", got)
	}
}

func TestDishMetricsIsEmpty(t *testing.T) {
	var nilMetrics *DishMetrics
	if !nilMetrics.IsEmpty() {
		t.Errorf("nil metrics must be empty")
	}

	var m DishMetrics
	if err := json.Unmarshal([]byte(`{"dish":null,"estimated_carbon_kg":null}`), &m); err != nil {
		t.Fatal(err)
	}
	if !m.IsEmpty() {
		t.Errorf("all-null metrics must be empty")
	}

	m.IngredientCount = Int(3)
	if m.IsEmpty() {
		t.Errorf("metrics with ingredient_count must not be empty")
	}
}

func TestDishMetricsNormalize(t *testing.T) {
	wrong := RatingE
	m := &DishMetrics{CarbonPerServingKg: Float(1.2), ImpactRating: &wrong, EstimationAccuracy: Float(140)}
	m.Normalize("pizza")

	if m.Dish == nil || *m.Dish != "pizza" {
		t.Errorf("dish = %v, want pizza", m.Dish)
	}
	if *m.ImpactRating != RatingB {
		t.Errorf("rating = %s, want B", *m.ImpactRating)
	}
	if m.EstimatedCarbonKg == nil || *m.EstimatedCarbonKg != 1.2 {
		t.Errorf("estimated carbon not filled from per-serving figure")
	}
	if m.CarMilesEquivalent == nil || math.Abs(*m.CarMilesEquivalent-2.88) > 1e-9 {
		t.Errorf("car miles = %v, want 2.88", m.CarMilesEquivalent)
	}
	if *m.EstimationAccuracy != 100 {
		t.Errorf("accuracy = %v, want clamped 100", *m.EstimationAccuracy)
	}
}

func TestDishIngredientsClean(t *testing.T) {
	d := &DishIngredients{Dish: "pizza", Ingredients: []Ingredient{
		{Name: " Flour ", WeightKg: Float(0.2)},
		{Name: "  "},
		{Name: "CHEESE", WeightKg: Float(-1)},
	}}
	d.Clean()

	if got := d.Names(); len(got) != 2 || got[0] != "flour" || got[1] != "cheese" {
		t.Fatalf("Names() = %v", got)
	}
	if d.Ingredients[1].WeightKg != nil {
		t.Errorf("negative weight must be dropped")
	}
	if d.TotalWeightKg() != 0.2 {
		t.Errorf("TotalWeightKg() = %v", d.TotalWeightKg())
	}
	if (&DishIngredients{}).Valid() {
		t.Errorf("empty ingredient list must be invalid")
	}
}

func TestIngredientCarbonResponseClean(t *testing.T) {
	r := &IngredientCarbonResponse{Results: []IngredientCarbonFootprint{
		{IngredientName: "Rice", MatchConfidence: Float(1.7)},
		{IngredientName: "", MatchConfidence: Float(0.5)},
		{IngredientName: "onion", MatchConfidence: Float(-0.2)},
	}}
	r.Clean()

	if len(r.Results) != 2 {
		t.Fatalf("len = %d, want 2", len(r.Results))
	}
	if r.Results[0].IngredientName != "rice" || *r.Results[0].MatchConfidence != 1 {
		t.Errorf("first row = %+v", r.Results[0])
	}
	if *r.Results[1].MatchConfidence != 0 {
		t.Errorf("confidence not clamped to 0")
	}
}

func TestReportFootprintsAndScale(t *testing.T) {
	report := &DishCarbonAnalysisReport{
		Metrics: DishMetrics{CarbonPerServingKg: Float(1.0), EstimatedCarbonKg: Float(1.0)},
		Ingredients: DishIngredients{Dish: "rice bowl", Ingredients: []Ingredient{
			{Name: "rice", WeightKg: Float(0.2)},
			{Name: "saffron"},
		}},
		LCA: IngredientCarbonResponse{Results: []IngredientCarbonFootprint{
			{IngredientName: "rice", CarbonFootprintKgCO2e: Float(0.8), FarmingKgCO2e: Float(0.5), RetailKgCO2e: Float(0.1)},
		}},
	}

	if _, ok := report.FootprintFor("saffron"); ok {
		t.Errorf("saffron must be unknown")
	}
	if missing := report.Missing(); len(missing) != 1 || missing[0] != "saffron" {
		t.Errorf("Missing() = %v", missing)
	}
	f, _ := report.FootprintFor("rice")
	if math.Abs(f.StageTotal()-0.6) > 1e-9 {
		t.Errorf("StageTotal() = %v", f.StageTotal())
	}

	double := report.Scale(2)
	if *double.Metrics.EstimatedCarbonKg != 2.0 {
		t.Errorf("scaled carbon = %v", *double.Metrics.EstimatedCarbonKg)
	}
	if *double.LCA.Results[0].CarbonFootprintKgCO2e != 1.6 {
		t.Errorf("scaled footprint = %v", *double.LCA.Results[0].CarbonFootprintKgCO2e)
	}
	if *report.LCA.Results[0].CarbonFootprintKgCO2e != 0.8 {
		t.Errorf("Scale must not mutate the original report")
	}
	if *double.Metrics.CarbonPerServingKg != 1.0 {
		t.Errorf("per-serving carbon must not scale")
	}
}
