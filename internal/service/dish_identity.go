package service

import (
	"context"
	"time"

	"github.com/timmy/carbonbite/internal/domain"
	"github.com/timmy/carbonbite/internal/imageinput"
	"github.com/timmy/carbonbite/internal/logger"
	"github.com/timmy/carbonbite/internal/prompts"
	"github.com/timmy/carbonbite/internal/reasoning"
)

type dishNameReply struct {
	DishName *string `json:"dish_name"`
}

// DishIdentityResolver turns raw input into a DishName.
type DishIdentityResolver struct {
	vision reasoning.Client
}

// NewDishIdentityResolver creates a resolver. vision may be nil when only the
// text path is used.
func NewDishIdentityResolver(vision reasoning.Client) *DishIdentityResolver {
	return &DishIdentityResolver{vision: vision}
}

// FromText normalizes a caller-supplied name. No reasoning call is made.
func (r *DishIdentityResolver) FromText(raw string) (domain.DishName, error) {
	name := domain.NormalizeDishName(raw)
	if name.IsZero() {
		return "", ErrInvalidInput
	}
	return name, nil
}

// FromImage asks the vision provider to name the dish in img. It returns
// detected=false whenever the provider abstains, returns null or an empty
// name. A provider failure is returned as a *StageError.
func (r *DishIdentityResolver) FromImage(ctx context.Context, img *imageinput.Image) (name domain.DishName, detected bool, err error) {
	if r.vision == nil {
		return "", false, &StageError{
			Stage:  StageIdentityResolution,
			Status: reasoning.StatusProviderError,
			Detail: "no vision provider configured",
		}
	}

	start := time.Now()
	res := r.vision.Invoke(ctx, reasoning.Request{
		System:     prompts.ImageSystemPrompt,
		User:       prompts.ImageUserPrompt,
		Image:      &reasoning.Image{Data: img.Data, MIMEType: img.ContentType},
		Schema:     dishNameSchema,
		SchemaName: "food_item",
	})
	entry := logger.With(logger.Fields{
		logger.FieldStage: StageIdentityResolution,
		logger.FieldSize:  len(img.Data),
	}).WithElapsed(start).WithStatus(res.Status.String())

	switch res.Status {
	case reasoning.StatusProviderError:
		entry.Warn(ctx, "Dish recognition failed: %s", res.Detail)
		return "", false, absent(StageIdentityResolution, res, "")
	case reasoning.StatusEmpty:
		entry.Info(ctx, "No dish detected in image")
		return "", false, nil
	}

	reply, ok := reasoning.Decode[dishNameReply](res)
	if !ok || reply.DishName == nil {
		entry.Info(ctx, "No dish detected in image")
		return "", false, nil
	}
	name = domain.NormalizeDishName(*reply.DishName)
	if name.IsZero() {
		entry.Info(ctx, "No dish detected in image")
		return "", false, nil
	}

	entry.With(logger.Fields{logger.FieldDish: name.String()}).Info(ctx, "Dish detected in image")
	return name, true, nil
}
