package recipes

import (
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/services"
	"philcali.me/recipesync/internal/store"
	"philcali.me/recipesync/internal/token"
)

const RESOURCE = "recipe"

func _blank(value *string) bool {
	return value == nil || strings.TrimSpace(*value) == ""
}

func _orDefault(value *string, fallback string) string {
	if _blank(value) {
		return fallback
	}
	return *value
}

func Validate(input data.RecipeInputDTO) error {
	if _blank(input.Title) {
		return exceptions.Required("title")
	}
	if _blank(input.Description) {
		return exceptions.Required("description")
	}
	return nil
}

func NewRecipeService(documents store.DocumentStore, marshaler token.TokenMarshaler) data.RecipeDataService {
	return &services.RepositoryService[data.RecipeDTO, data.RecipeInputDTO]{
		Store:          documents,
		TokenMarshaler: marshaler,
		Collection:     data.RECIPES_COLLECTION,
		Resource:       RESOURCE,
		Clock:          services.NewClock(),
		Validate:       Validate,
		OnCreate: func(input data.RecipeInputDTO, now time.Time, collection string, id string) data.RecipeDTO {
			ingredients := make([]data.IngredientDTO, 0)
			if input.Ingredients != nil {
				ingredients = append(ingredients, *input.Ingredients...)
			}
			return data.RecipeDTO{
				PK:              collection,
				SK:              id,
				Title:           strings.TrimSpace(*input.Title),
				Description:     *input.Description,
				Ingredients:     ingredients,
				IngredientsText: aws.ToString(input.IngredientsText),
				Steps:           aws.ToString(input.Steps),
				Duration:        _orDefault(input.Duration, data.DEFAULT_DURATION),
				Difficulty:      _orDefault(input.Difficulty, data.DEFAULT_DIFFICULTY),
				Source:          input.Source,
				Thumbnail:       input.Thumbnail,
				CreateTime:      now,
				UpdateTime:      now,
			}
		},
		OnUpdate: func(input data.RecipeInputDTO, update services.UpdateFields) error {
			if input.Title != nil {
				if _blank(input.Title) {
					return exceptions.Required("title")
				}
				update.Set("title", strings.TrimSpace(*input.Title))
			}
			if input.Description != nil {
				if _blank(input.Description) {
					return exceptions.Required("description")
				}
				update.Set("description", *input.Description)
			}
			if input.Ingredients != nil {
				update.Set("ingredients", append(make([]data.IngredientDTO, 0), *input.Ingredients...))
			}
			if input.IngredientsText != nil {
				update.Set("ingredientsText", *input.IngredientsText)
			}
			if input.Steps != nil {
				update.Set("steps", *input.Steps)
			}
			if input.Duration != nil {
				update.Set("duration", *input.Duration)
			}
			if input.Difficulty != nil {
				update.Set("difficulty", *input.Difficulty)
			}
			if input.Source != nil {
				update.Set("source", *input.Source)
			}
			if input.Thumbnail != nil {
				update.Set("thumbnail", *input.Thumbnail)
			}
			return nil
		},
	}
}
