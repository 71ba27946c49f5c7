package service

import (
	"context"
	"time"

	"github.com/timmy/carbonbite/internal/domain"
	"github.com/timmy/carbonbite/internal/logger"
	"github.com/timmy/carbonbite/internal/prompts"
	"github.com/timmy/carbonbite/internal/reasoning"
)

// IngredientExtractor asks for the per-serving ingredient breakdown of a dish.
type IngredientExtractor struct {
	client reasoning.Client
}

func NewIngredientExtractor(client reasoning.Client) *IngredientExtractor {
	return &IngredientExtractor{client: client}
}

// Extract returns the cleaned ingredient list. An empty list is absent.
func (e *IngredientExtractor) Extract(ctx context.Context, dish domain.DishName) (*domain.DishIngredients, error) {
	start := time.Now()
	res := e.client.Invoke(ctx, reasoning.Request{
		System:     prompts.IngredientsSystemPrompt,
		User:       prompts.IngredientsUserPrompt(dish.String()),
		Schema:     dishIngredientsSchema,
		SchemaName: "dish_ingredients",
	})
	entry := logger.With(logger.Fields{
		logger.FieldStage: StageIngredients,
		logger.FieldDish:  dish.String(),
	}).WithElapsed(start).WithStatus(res.Status.String())

	ingredients, ok := reasoning.Decode[domain.DishIngredients](res)
	if ok {
		ingredients.Clean()
	}
	if !ok || !ingredients.Valid() {
		entry.Warn(ctx, "Ingredient breakdown unusable: %s", res.Detail)
		return nil, absent(StageIngredients, res, "no ingredients")
	}
	if ingredients.Dish == "" {
		ingredients.Dish = dish.String()
	}

	entry.WithCount(len(ingredients.Ingredients)).Debug(ctx, "Ingredients extracted")
	return &ingredients, nil
}
