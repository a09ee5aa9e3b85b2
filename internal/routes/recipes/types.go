package recipes

import (
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/routes/util"
)

type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

type RecipeInput struct {
	Title           *string       `json:"title"`
	Description     *string       `json:"description"`
	Ingredients     *[]Ingredient `json:"ingredients"`
	IngredientsText *string       `json:"ingredientsText"`
	Steps           *string       `json:"steps"`
	Duration        *string       `json:"duration"`
	Difficulty      *string       `json:"difficulty"`
	Source          *string       `json:"source"`
	Thumbnail       *string       `json:"thumbnail"`
}

func ConvertIngredientToData(in Ingredient) data.IngredientDTO {
	return data.IngredientDTO{
		Name:     in.Name,
		Quantity: in.Quantity,
	}
}

func ConvertIngredientDataToTransfer(in data.IngredientDTO) Ingredient {
	return Ingredient{
		Name:     in.Name,
		Quantity: in.Quantity,
	}
}

func (r *RecipeInput) ToData() data.RecipeInputDTO {
	return data.RecipeInputDTO{
		Title:           r.Title,
		Description:     r.Description,
		Ingredients:     util.MapOnList(r.Ingredients, ConvertIngredientToData),
		IngredientsText: r.IngredientsText,
		Steps:           r.Steps,
		Duration:        r.Duration,
		Difficulty:      r.Difficulty,
		Source:          r.Source,
		Thumbnail:       r.Thumbnail,
	}
}

type Recipe struct {
	Id              string       `json:"recipeId"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Ingredients     []Ingredient `json:"ingredients"`
	IngredientsText string       `json:"ingredientsText"`
	Steps           string       `json:"steps"`
	Duration        string       `json:"duration"`
	Difficulty      string       `json:"difficulty"`
	Source          *string      `json:"source,omitempty"`
	Thumbnail       *string      `json:"thumbnail,omitempty"`
	CreateTime      time.Time    `json:"createTime"`
	UpdateTime      time.Time    `json:"updateTime"`
}

// StripFields drops the thumbnail from list responses when the request asks
// for it with stripFields=thumbnail.
func StripFields(event events.APIGatewayV2HTTPRequest) func(data.RecipeDTO) Recipe {
	var stripThumbnail bool
	if stripFields, ok := event.QueryStringParameters["stripFields"]; ok {
		for _, field := range strings.Split(stripFields, ",") {
			if strings.EqualFold(field, "thumbnail") {
				stripThumbnail = true
			}
		}
	}
	return func(rd data.RecipeDTO) Recipe {
		return NewRecipe(rd, stripThumbnail)
	}
}

func NewRecipe(recipe data.RecipeDTO, stripThumbnail bool) Recipe {
	var thumbnail *string
	if !stripThumbnail {
		thumbnail = recipe.Thumbnail
	}
	return Recipe{
		Id:              recipe.SK,
		Title:           recipe.Title,
		Description:     recipe.Description,
		Ingredients:     *util.MapOnList(&recipe.Ingredients, ConvertIngredientDataToTransfer),
		IngredientsText: recipe.IngredientsText,
		Steps:           recipe.Steps,
		Duration:        recipe.Duration,
		Difficulty:      recipe.Difficulty,
		Source:          recipe.Source,
		Thumbnail:       thumbnail,
		CreateTime:      recipe.CreateTime,
		UpdateTime:      recipe.UpdateTime,
	}
}

func NewFullRecipe(recipe data.RecipeDTO) Recipe {
	return NewRecipe(recipe, false)
}
