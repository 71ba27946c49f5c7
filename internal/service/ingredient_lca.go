package service

import (
	"context"
	"time"

	"github.com/timmy/carbonbite/internal/domain"
	"github.com/timmy/carbonbite/internal/logger"
	"github.com/timmy/carbonbite/internal/prompts"
	"github.com/timmy/carbonbite/internal/reasoning"
)

// LCAMapper maps ingredients to life-cycle assessment entries.
type LCAMapper struct {
	client reasoning.Client
}

func NewLCAMapper(client reasoning.Client) *LCAMapper {
	return &LCAMapper{client: client}
}

// Map asks for one footprint per recognized ingredient. Weights are passed
// along when known. An empty result set is absent.
func (m *LCAMapper) Map(ctx context.Context, ingredients []domain.Ingredient) (*domain.IngredientCarbonResponse, error) {
	lines := make([]prompts.IngredientLine, len(ingredients))
	for i, ing := range ingredients {
		lines[i] = prompts.IngredientLine{Name: ing.Name, WeightKg: ing.WeightKg}
	}

	start := time.Now()
	res := m.client.Invoke(ctx, reasoning.Request{
		System:     prompts.LCASystemPrompt,
		User:       prompts.LCAUserPrompt(lines),
		Schema:     ingredientCarbonSchema,
		SchemaName: "ingredient_carbon_response",
	})
	entry := logger.With(logger.Fields{
		logger.FieldStage: StageLCAMapping,
		"ingredients":     len(ingredients),
	}).WithElapsed(start).WithStatus(res.Status.String())

	resp, ok := reasoning.Decode[domain.IngredientCarbonResponse](res)
	if ok {
		resp.Clean()
	}
	if !ok || !resp.Valid() {
		entry.Warn(ctx, "LCA mapping unusable: %s", res.Detail)
		return nil, absent(StageLCAMapping, res, "no footprints")
	}

	entry.WithCount(len(resp.Results)).Debug(ctx, "Ingredients mapped")
	return &resp, nil
}
