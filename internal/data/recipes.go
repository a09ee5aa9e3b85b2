package data

import (
	"time"
)

const (
	RECIPES_COLLECTION = "recipes"
	DEFAULT_DURATION   = "30 min"
	DEFAULT_DIFFICULTY = "Moyen"
)

type IngredientDTO struct {
	Name     string `dynamodbav:"name"`
	Quantity string `dynamodbav:"quantity"`
}

type RecipeDTO struct {
	PK              string          `dynamodbav:"PK"`
	SK              string          `dynamodbav:"SK"`
	Title           string          `dynamodbav:"title"`
	Description     string          `dynamodbav:"description"`
	Ingredients     []IngredientDTO `dynamodbav:"ingredients"`
	IngredientsText string          `dynamodbav:"ingredientsText"`
	Steps           string          `dynamodbav:"steps"`
	Duration        string          `dynamodbav:"duration"`
	Difficulty      string          `dynamodbav:"difficulty"`
	Source          *string         `dynamodbav:"source,omitempty"`
	Thumbnail       *string         `dynamodbav:"thumbnail,omitempty"`
	CreateTime      time.Time       `dynamodbav:"createTime"`
	UpdateTime      time.Time       `dynamodbav:"updateTime"`
}

// RecipeInputDTO carries create and partial update fields. Nil fields are
// left untouched on update.
type RecipeInputDTO struct {
	Title           *string          `dynamodbav:"title,omitempty"`
	Description     *string          `dynamodbav:"description,omitempty"`
	Ingredients     *[]IngredientDTO `dynamodbav:"ingredients,omitempty"`
	IngredientsText *string          `dynamodbav:"ingredientsText,omitempty"`
	Steps           *string          `dynamodbav:"steps,omitempty"`
	Duration        *string          `dynamodbav:"duration,omitempty"`
	Difficulty      *string          `dynamodbav:"difficulty,omitempty"`
	Source          *string          `dynamodbav:"source,omitempty"`
	Thumbnail       *string          `dynamodbav:"thumbnail,omitempty"`
}

type RecipeDataService interface {
	Repository[RecipeDTO, RecipeInputDTO]
}
