package service

import "github.com/google/jsonschema-go/jsonschema"

func nullable(t string) *jsonschema.Schema {
	return &jsonschema.Schema{Types: []string{t, "null"}}
}

// dishNameSchema is the vision reply: a single optional dish name.
var dishNameSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"dish_name": nullable("string"),
	},
}

var dishMetricsSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"dish":                  nullable("string"),
		"estimated_carbon_kg":   nullable("number"),
		"serving_size_g":        nullable("number"),
		"estimation_accuracy":   nullable("number"),
		"impact_rating":         nullable("string"),
		"carbon_per_serving_kg": nullable("number"),
		"ingredient_count":      nullable("integer"),
		"car_miles_equivalent":  nullable("number"),
	},
}

var dishIngredientsSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"dish": nullable("string"),
		"ingredients": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type:     "object",
				Required: []string{"ingredient_name"},
				Properties: map[string]*jsonschema.Schema{
					"ingredient_name":      {Type: "string"},
					"ingredient_weight_kg": nullable("number"),
				},
			},
		},
	},
	Required: []string{"ingredients"},
}

var ingredientCarbonSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"results": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type:     "object",
				Required: []string{"ingredient_name"},
				Properties: map[string]*jsonschema.Schema{
					"ingredient_name":                  {Type: "string"},
					"matched_ingredient":               nullable("string"),
					"carbon_footprint_kg_co2e":         nullable("number"),
					"farming_footprint_kg_co2e":        nullable("number"),
					"packaging_footprint_kg_co2e":      nullable("number"),
					"processing_footprint_kg_co2e":     nullable("number"),
					"retail_footprint_kg_co2e":         nullable("number"),
					"transportation_footprint_kg_co2e": nullable("number"),
					"match_confidence":                 nullable("number"),
					"matched":                          nullable("boolean"),
					"lca_source":                       nullable("string"),
				},
			},
		},
	},
	Required: []string{"results"},
}
