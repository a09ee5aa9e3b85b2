package provider

import (
	"context"

	"philcali.me/recipesync/internal/data"
)

type FilterInput struct {
	Category       *string
	Area           *string
	MainIngredient *string
}

// Recipe is a recipe as published by an external provider.
type Recipe struct {
	Id           string               `json:"id"`
	Title        string               `json:"title"`
	Category     string               `json:"category,omitempty"`
	Area         string               `json:"area,omitempty"`
	Instructions string               `json:"instructions,omitempty"`
	Thumbnail    string               `json:"thumbnail,omitempty"`
	Source       string               `json:"source,omitempty"`
	Ingredients  []data.IngredientDTO `json:"ingredients"`
}

type Category struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`
}

type RecipeProvider interface {
	Name() string
	Random(ctx context.Context) (data.QueryResults[Recipe], error)
	Lookup(ctx context.Context, id string) (Recipe, error)
	Search(ctx context.Context, text string) (data.QueryResults[Recipe], error)
	Filter(ctx context.Context, input FilterInput) (data.QueryResults[Recipe], error)
	Categories(ctx context.Context) ([]Category, error)
}
