package mealdb

import (
	"encoding/json"
	"fmt"
	"strings"

	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/provider"
)

const MAX_INGREDIENTS = 20

// Meal carries the ingredients flattened into strIngredientN and
// strMeasureN fields, collected into Ingredients when decoded.
type Meal struct {
	Id           string               `json:"idMeal"`
	Name         string               `json:"strMeal"`
	Category     string               `json:"strCategory"`
	Area         string               `json:"strArea"`
	Instructions string               `json:"strInstructions"`
	Thumbnail    string               `json:"strMealThumb"`
	Source       string               `json:"strSource"`
	Ingredients  []data.IngredientDTO `json:"-"`
}

func (m *Meal) UnmarshalJSON(body []byte) error {
	type plain Meal
	if err := json.Unmarshal(body, (*plain)(m)); err != nil {
		return err
	}
	var bagOfStrings map[string]interface{}
	if err := json.Unmarshal(body, &bagOfStrings); err != nil {
		return err
	}
	m.Ingredients = ExtractIngredients(bagOfStrings)
	return nil
}

func _field(fields map[string]interface{}, name string) string {
	if value, ok := fields[name].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

// ExtractIngredients reads up to twenty ingredient and measure pairs,
// skipping blank names.
func ExtractIngredients(fields map[string]interface{}) []data.IngredientDTO {
	ingredients := make([]data.IngredientDTO, 0)
	for i := 1; i <= MAX_INGREDIENTS; i++ {
		name := _field(fields, fmt.Sprintf("strIngredient%d", i))
		if name == "" {
			continue
		}
		ingredients = append(ingredients, data.IngredientDTO{
			Name:     name,
			Quantity: _field(fields, fmt.Sprintf("strMeasure%d", i)),
		})
	}
	return ingredients
}

func ToRecipe(m Meal) provider.Recipe {
	ingredients := m.Ingredients
	if ingredients == nil {
		ingredients = make([]data.IngredientDTO, 0)
	}
	return provider.Recipe{
		Id:           m.Id,
		Title:        m.Name,
		Category:     m.Category,
		Area:         m.Area,
		Instructions: m.Instructions,
		Thumbnail:    m.Thumbnail,
		Source:       m.Source,
		Ingredients:  ingredients,
	}
}

func ConvertFilteredToRecipe(m FilteredMeal) provider.Recipe {
	return provider.Recipe{
		Id:          m.Id,
		Title:       m.Name,
		Thumbnail:   m.Thumbnail,
		Ingredients: make([]data.IngredientDTO, 0),
	}
}

func ConvertCategory(c Category) provider.Category {
	return provider.Category{
		Id:          c.Id,
		Name:        c.Name,
		Thumbnail:   c.Thumbnail,
		Description: c.Description,
	}
}

// ToRecipeInput converts a provider recipe into the input that imports it.
func ToRecipeInput(recipe provider.Recipe) data.RecipeInputDTO {
	description := strings.TrimSpace(strings.Join(_nonBlank(recipe.Category, recipe.Area), " · "))
	if description == "" {
		description = recipe.Title
	}
	ingredients := append(make([]data.IngredientDTO, 0, len(recipe.Ingredients)), recipe.Ingredients...)
	source := fmt.Sprintf("%s:%s", PROVIDER_NAME, recipe.Id)
	input := data.RecipeInputDTO{
		Title:       &recipe.Title,
		Description: &description,
		Ingredients: &ingredients,
		Steps:       &recipe.Instructions,
		Source:      &source,
	}
	if recipe.Thumbnail != "" {
		input.Thumbnail = &recipe.Thumbnail
	}
	return input
}

func _nonBlank(values ...string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			result = append(result, value)
		}
	}
	return result
}

type FilteredMeal struct {
	Id        string `json:"idMeal"`
	Name      string `json:"strMeal"`
	Thumbnail string `json:"strMealThumb"`
}

type Category struct {
	Id          string `json:"idCategory"`
	Name        string `json:"strCategory"`
	Thumbnail   string `json:"strCategoryThumb"`
	Description string `json:"strCategoryDescription"`
}

type CategoryResponse struct {
	Categories []Category `json:"categories"`
}

type QueryResponse struct {
	Meals []Meal `json:"meals"`
}

type FilterResponse struct {
	Meals []FilteredMeal `json:"meals"`
}
