package data

import "time"

const (
	SHOPPING_LISTS_COLLECTION = "shoppingLists"
	DEFAULT_CATEGORY          = "Autre"
	INGREDIENTS_CATEGORY      = "Ingrédients"
)

type ShoppingListItemDTO struct {
	Id       string `dynamodbav:"id"`
	Name     string `dynamodbav:"name"`
	Quantity string `dynamodbav:"quantity"`
	Checked  bool   `dynamodbav:"checked"`
	Category string `dynamodbav:"category"`
}

type ShoppingListDTO struct {
	PK         string                `dynamodbav:"PK"`
	SK         string                `dynamodbav:"SK"`
	Name       string                `dynamodbav:"name"`
	Items      []ShoppingListItemDTO `dynamodbav:"items"`
	RecipeIds  []string              `dynamodbav:"recipeIds"`
	Archived   bool                  `dynamodbav:"archived"`
	CreateTime time.Time             `dynamodbav:"createTime"`
	UpdateTime time.Time             `dynamodbav:"updateTime"`
}

type ShoppingListInputDTO struct {
	Name      *string                `dynamodbav:"name,omitempty"`
	Items     *[]ShoppingListItemDTO `dynamodbav:"items,omitempty"`
	RecipeIds *[]string              `dynamodbav:"recipeIds,omitempty"`
	Archived  *bool                  `dynamodbav:"archived,omitempty"`
}

type ShoppingListDataService interface {
	Repository[ShoppingListDTO, ShoppingListInputDTO]
}
