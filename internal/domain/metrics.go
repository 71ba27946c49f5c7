package domain

// CarMilesPerKgCO2e converts kg CO2e into miles driven by an average car.
const CarMilesPerKgCO2e = 2.4

// ImpactRating is the A (lowest) to E (highest) carbon band of a dish.
type ImpactRating string

const (
	RatingA ImpactRating = "A"
	RatingB ImpactRating = "B"
	RatingC ImpactRating = "C"
	RatingD ImpactRating = "D"
	RatingE ImpactRating = "E"
)

// Valid reports whether r is one of A..E.
func (r ImpactRating) Valid() bool {
	switch r {
	case RatingA, RatingB, RatingC, RatingD, RatingE:
		return true
	}
	return false
}

// RatingFor maps a per-serving footprint in kg CO2e to its band.
// Bands are half-open on the left except D, which includes 4.0.
func RatingFor(kg float64) ImpactRating {
	switch {
	case kg < 0.5:
		return RatingA
	case kg < 1.5:
		return RatingB
	case kg < 2.5:
		return RatingC
	case kg <= 4.0:
		return RatingD
	default:
		return RatingE
	}
}

// CarMilesFor returns the car-miles equivalent of kg CO2e.
func CarMilesFor(kg float64) float64 {
	return kg * CarMilesPerKgCO2e
}

// DishMetrics is the whole-dish estimate. Every field is optional.
type DishMetrics struct {
	Dish               *string       `json:"dish"`
	EstimatedCarbonKg  *float64      `json:"estimated_carbon_kg"`
	ServingSizeG       *float64      `json:"serving_size_g"`
	EstimationAccuracy *float64      `json:"estimation_accuracy"`
	ImpactRating       *ImpactRating `json:"impact_rating"`
	CarbonPerServingKg *float64      `json:"carbon_per_serving_kg"`
	IngredientCount    *int          `json:"ingredient_count"`
	CarMilesEquivalent *float64      `json:"car_miles_equivalent"`
}

// IsEmpty reports whether no field is populated. An empty value is treated as absent.
func (m *DishMetrics) IsEmpty() bool {
	if m == nil {
		return true
	}
	return m.Dish == nil &&
		m.EstimatedCarbonKg == nil &&
		m.ServingSizeG == nil &&
		m.EstimationAccuracy == nil &&
		m.ImpactRating == nil &&
		m.CarbonPerServingKg == nil &&
		m.IngredientCount == nil &&
		m.CarMilesEquivalent == nil
}

// CarbonKg returns the best available footprint figure, preferring the per-serving one.
func (m *DishMetrics) CarbonKg() (float64, bool) {
	if m == nil {
		return 0, false
	}
	if m.CarbonPerServingKg != nil {
		return *m.CarbonPerServingKg, true
	}
	if m.EstimatedCarbonKg != nil {
		return *m.EstimatedCarbonKg, true
	}
	return 0, false
}

// Normalize fills derived fields from the carbon figure: both carbon fields,
// the impact rating and the car-miles equivalent. dish is used when Dish is unset.
func (m *DishMetrics) Normalize(dish DishName) {
	if m == nil {
		return
	}
	if m.Dish == nil || *m.Dish == "" {
		name := dish.String()
		m.Dish = &name
	}
	kg, ok := m.CarbonKg()
	if !ok {
		return
	}
	if m.EstimatedCarbonKg == nil {
		m.EstimatedCarbonKg = Float(kg)
	}
	if m.CarbonPerServingKg == nil {
		m.CarbonPerServingKg = Float(kg)
	}
	rating := RatingFor(kg)
	m.ImpactRating = &rating
	if m.CarMilesEquivalent == nil {
		m.CarMilesEquivalent = Float(CarMilesFor(kg))
	}
	if m.EstimationAccuracy != nil {
		acc := clamp(*m.EstimationAccuracy, 0, 100)
		m.EstimationAccuracy = &acc
	}
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
