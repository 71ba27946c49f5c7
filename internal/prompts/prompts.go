// Package prompts holds the reasoning prompts for each analysis stage.
package prompts

import (
	"fmt"
	"strings"
)

// ============================================================================
// Dish Metrics
// ============================================================================

// MetricsSystemPrompt sets the analyst role for whole-dish estimates.
const MetricsSystemPrompt = `You are a food sustainability analyst.
Given the name of a dish, estimate its environmental impact per serving.
Reason from a typical recipe, life-cycle assessment knowledge and global average emission
factors for the ingredients. Estimates may be approximate but must be internally consistent.`

const metricsUserTemplate = `Estimate the environmental impact of this dish.

Dish: %s

Work through these steps:
1. Assume the typical recipe for the dish as it is usually prepared in its region.
2. Estimate one serving in grams. Main dishes usually weigh 350-500 g.
3. Estimate total kg CO2e for that serving using global average emission factors.
4. Pick the impact rating from the total:
   A: below 0.5 kg CO2e
   B: 0.5 up to 1.5
   C: 1.5 up to 2.5
   D: 2.5 to 4.0
   E: above 4.0
5. Convert the total to car miles driven at 2.4 miles per kg CO2e.
6. Count the ingredients.

Reply with JSON only, using these keys:
{"dish": string, "estimated_carbon_kg": number, "serving_size_g": number,
 "estimation_accuracy": number, "impact_rating": string, "carbon_per_serving_kg": number,
 "ingredient_count": integer, "car_miles_equivalent": number}

estimation_accuracy is your confidence as a percentage from 0 to 100.
If "%s" is not a real dish or you cannot recognize it, reply with an empty object: {}`

// MetricsUserPrompt renders the metrics request for dish.
func MetricsUserPrompt(dish string) string {
	return fmt.Sprintf(metricsUserTemplate, dish, dish)
}

// ============================================================================
// Dish Ingredients
// ============================================================================

// IngredientsSystemPrompt sets the role for ingredient breakdowns.
const IngredientsSystemPrompt = `You are a culinary assistant focused on sustainability.
Break a dish down into its ingredients with approximate weights in kilograms for a single
serving, not for batch cooking.`

const ingredientsUserTemplate = `List the typical ingredients of this dish.

Dish: %s

1. Assume the standard regional recipe.
2. Include every ingredient, including minor ones such as salt, spices, oil, water and chillies.
3. Estimate the weight of each ingredient in kilograms for one serving.

Reply with JSON only:
{"dish": string, "ingredients": [{"ingredient_name": string, "ingredient_weight_kg": number}]}

Use lowercase ingredient names and decimal weights that add up to a realistic serving.
If "%s" is not a real dish or you cannot recognize it, reply with an empty ingredient list.`

// IngredientsUserPrompt renders the ingredient request for dish.
func IngredientsUserPrompt(dish string) string {
	return fmt.Sprintf(ingredientsUserTemplate, dish, dish)
}

// ============================================================================
// Ingredient LCA Mapping
// ============================================================================

// LCASystemPrompt sets the role for per-ingredient life-cycle mapping.
const LCASystemPrompt = `You are a food impact analyst. Estimate the carbon footprint (kg CO2e) of
food ingredients using published life-cycle assessment research such as Poore & Nemecek (2018)
and the Foodsteps datasets.`

const lcaUserTemplate = `Map each ingredient below to a known item in a standard LCA dataset.

For every ingredient return:
- ingredient_name: the name exactly as given
- matched_ingredient: the canonical LCA item you mapped it to
- carbon_footprint_kg_co2e: footprint for the given weight, or per kg when no weight is given
- farming_footprint_kg_co2e, packaging_footprint_kg_co2e, processing_footprint_kg_co2e,
  retail_footprint_kg_co2e, transportation_footprint_kg_co2e: the stage breakdown
- match_confidence: number between 0 and 1
- matched: true or false
- lca_source: for example "poore_nemecek" or "foodsteps"

Example input:
- chicken (0.2 kg)
- rice (0.1 kg)
Example output:
{"results": [
 {"ingredient_name": "chicken", "matched_ingredient": "Chicken, meat", "carbon_footprint_kg_co2e": 1.82,
  "farming_footprint_kg_co2e": 1.45, "packaging_footprint_kg_co2e": 0.05, "processing_footprint_kg_co2e": 0.18,
  "retail_footprint_kg_co2e": 0.08, "transportation_footprint_kg_co2e": 0.06, "match_confidence": 0.92,
  "matched": true, "lca_source": "foodsteps"},
 {"ingredient_name": "rice", "matched_ingredient": "Rice, milled", "carbon_footprint_kg_co2e": 0.38,
  "farming_footprint_kg_co2e": 0.28, "packaging_footprint_kg_co2e": 0.02, "processing_footprint_kg_co2e": 0.05,
  "retail_footprint_kg_co2e": 0.02, "transportation_footprint_kg_co2e": 0.01, "match_confidence": 0.89,
  "matched": true, "lca_source": "poore_nemecek"}
]}

Example input:
- onion (0.05 kg)
- yogurt (0.025 kg)
Example output:
{"results": [
 {"ingredient_name": "onion", "matched_ingredient": "Onions", "carbon_footprint_kg_co2e": 0.024,
  "farming_footprint_kg_co2e": 0.018, "packaging_footprint_kg_co2e": 0.001, "processing_footprint_kg_co2e": 0.002,
  "retail_footprint_kg_co2e": 0.002, "transportation_footprint_kg_co2e": 0.001, "match_confidence": 0.88,
  "matched": true, "lca_source": "foodsteps"},
 {"ingredient_name": "yogurt", "matched_ingredient": "Yoghurt", "carbon_footprint_kg_co2e": 0.048,
  "farming_footprint_kg_co2e": 0.034, "packaging_footprint_kg_co2e": 0.004, "processing_footprint_kg_co2e": 0.006,
  "retail_footprint_kg_co2e": 0.003, "transportation_footprint_kg_co2e": 0.001, "match_confidence": 0.84,
  "matched": true, "lca_source": "poore_nemecek"}
]}

Leave out any ingredient you cannot recognize. Reply with JSON only.

Ingredients:
%s`

// IngredientLine is one ingredient as listed in the LCA request.
type IngredientLine struct {
	Name     string
	WeightKg *float64
}

// LCAUserPrompt renders the LCA request for an ingredient list.
func LCAUserPrompt(lines []IngredientLine) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if l.WeightKg != nil {
			fmt.Fprintf(&b, "- %s (%g kg)", l.Name, *l.WeightKg)
		} else {
			fmt.Fprintf(&b, "- %s", l.Name)
		}
	}
	return fmt.Sprintf(lcaUserTemplate, b.String())
}

// ============================================================================
// Image Recognition
// ============================================================================

// ImageSystemPrompt sets the role for dish recognition from a photo.
const ImageSystemPrompt = `You analyze food photographs.
Decide whether the image shows a recognizable food item or dish and, if so, name it.
Only name a dish you are confident about. If you are unsure, or the image is not food,
return no name. Never guess. Always reply with a JSON object with the single key "dish_name".`

// ImageUserPrompt asks for the dish name with an explicit abstention case.
const ImageUserPrompt = `Identify the food or dish in this image.

- Give a specific, accurate name when the dish is clearly recognizable.
- When several foods are shown or the dish cannot be pinned down, give a meaningful
  category instead, such as "Indian Thali", "Fruits", "Vegetables" or "Mixed Snacks".
- When the image does not show food, reply {"dish_name": null}.

Examples:
photo of paneer butter masala -> {"dish_name": "Paneer Butter Masala"}
photo of an Oreo biscuit -> {"dish_name": "Oreo Biscuit"}
photo of a chair -> {"dish_name": null}

Reply with the JSON object only.`
