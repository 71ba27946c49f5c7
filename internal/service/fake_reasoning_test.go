package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/timmy/carbonbite/internal/reasoning"
)

// fakeReasoning answers by request SchemaName and counts calls.
type fakeReasoning struct {
	mu      sync.Mutex
	replies map[string]reasoning.Result
	hooks   map[string]func(ctx context.Context) *reasoning.Result
	calls   map[string]int
	last    map[string]reasoning.Request
}

func newFakeReasoning() *fakeReasoning {
	return &fakeReasoning{
		replies: make(map[string]reasoning.Result),
		hooks:   make(map[string]func(ctx context.Context) *reasoning.Result),
		calls:   make(map[string]int),
		last:    make(map[string]reasoning.Request),
	}
}

func (f *fakeReasoning) reply(schema string, res reasoning.Result) *fakeReasoning {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[schema] = res
	return f
}

func (f *fakeReasoning) Invoke(ctx context.Context, req reasoning.Request) reasoning.Result {
	f.mu.Lock()
	f.calls[req.SchemaName]++
	f.last[req.SchemaName] = req
	hook := f.hooks[req.SchemaName]
	res, ok := f.replies[req.SchemaName]
	f.mu.Unlock()

	if hook != nil {
		if override := hook(ctx); override != nil {
			return *override
		}
	}
	if !ok {
		return reasoning.Result{Status: reasoning.StatusProviderError, Detail: "no reply configured"}
	}
	return res
}

func (f *fakeReasoning) count(schema string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[schema]
}

func okJSON(payload string) reasoning.Result {
	return reasoning.Result{Status: reasoning.StatusOK, Payload: json.RawMessage(payload)}
}

func emptyReply() reasoning.Result {
	return reasoning.Result{Status: reasoning.StatusEmpty, Detail: "empty JSON value"}
}

func providerFailure(detail string) reasoning.Result {
	return reasoning.Result{Status: reasoning.StatusProviderError, Detail: detail}
}

const (
	schemaFood        = "food_item"
	schemaMetrics     = "dish_metrics"
	schemaIngredients = "dish_ingredients"
	schemaLCA         = "ingredient_carbon_response"
)

const pizzaMetrics = `{"carbon_per_serving_kg": 1.2, "serving_size_g": 400, "ingredient_count": 6}`

const pizzaIngredients = `{"dish": "pizza", "ingredients": [
	{"ingredient_name": "Pizza Dough", "ingredient_weight_kg": 0.15},
	{"ingredient_name": "tomato sauce", "ingredient_weight_kg": 0.08},
	{"ingredient_name": "mozzarella", "ingredient_weight_kg": 0.1},
	{"ingredient_name": "olive oil", "ingredient_weight_kg": 0.01},
	{"ingredient_name": "basil", "ingredient_weight_kg": 0.005},
	{"ingredient_name": "pepperoni", "ingredient_weight_kg": 0.055}
]}`

const pizzaLCA = `{"results": [
	{"ingredient_name": "pizza dough", "matched_ingredient": "Wheat flour", "carbon_footprint_kg_co2e": 0.12, "match_confidence": 0.9, "matched": true, "lca_source": "poore_nemecek"},
	{"ingredient_name": "tomato sauce", "matched_ingredient": "Tomatoes", "carbon_footprint_kg_co2e": 0.07, "match_confidence": 0.85, "matched": true, "lca_source": "foodsteps"},
	{"ingredient_name": "mozzarella", "matched_ingredient": "Cheese", "carbon_footprint_kg_co2e": 0.6, "farming_footprint_kg_co2e": 0.5, "match_confidence": 1.4, "matched": true, "lca_source": "poore_nemecek"},
	{"ingredient_name": "olive oil", "matched_ingredient": "Olive oil", "carbon_footprint_kg_co2e": 0.05, "match_confidence": 0.92, "matched": true, "lca_source": "poore_nemecek"},
	{"ingredient_name": "basil", "matched_ingredient": "Herbs", "carbon_footprint_kg_co2e": 0.004, "match_confidence": 0.7, "matched": true, "lca_source": "foodsteps"},
	{"ingredient_name": "pepperoni", "matched_ingredient": "Pig meat", "carbon_footprint_kg_co2e": 0.4, "match_confidence": 0.8, "matched": true, "lca_source": "poore_nemecek"}
]}`

// pizzaFake answers every text stage with the pizza fixtures.
func pizzaFake() *fakeReasoning {
	return newFakeReasoning().
		reply(schemaMetrics, okJSON(pizzaMetrics)).
		reply(schemaIngredients, okJSON(pizzaIngredients)).
		reply(schemaLCA, okJSON(pizzaLCA))
}
