package shopping

import (
	"time"

	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/routes/util"
	shoppingService "philcali.me/recipesync/internal/shopping"
)

type ShoppingListItem struct {
	Id       string `json:"itemId"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Checked  bool   `json:"checked"`
	Category string `json:"category"`
}

type ShoppingListInput struct {
	Name      *string             `json:"name,omitempty"`
	Items     *[]ShoppingListItem `json:"items,omitempty"`
	RecipeIds *[]string           `json:"recipeIds,omitempty"`
	Archived  *bool               `json:"archived,omitempty"`
}

type ArchiveInput struct {
	Archived bool `json:"archived"`
}

type ItemInput struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Category string `json:"category"`
}

func (i *ItemInput) ToData() shoppingService.ItemInput {
	return shoppingService.ItemInput{
		Name:     i.Name,
		Quantity: i.Quantity,
		Category: i.Category,
	}
}

func ConvertItemToData(sli ShoppingListItem) data.ShoppingListItemDTO {
	return data.ShoppingListItemDTO{
		Id:       sli.Id,
		Name:     sli.Name,
		Quantity: sli.Quantity,
		Checked:  sli.Checked,
		Category: sli.Category,
	}
}

func ConvertItemDataToTransfer(slid data.ShoppingListItemDTO) ShoppingListItem {
	return ShoppingListItem{
		Id:       slid.Id,
		Name:     slid.Name,
		Quantity: slid.Quantity,
		Checked:  slid.Checked,
		Category: slid.Category,
	}
}

func (l *ShoppingListInput) ToData() data.ShoppingListInputDTO {
	return data.ShoppingListInputDTO{
		Name:      l.Name,
		Items:     util.MapOnList(l.Items, ConvertItemToData),
		RecipeIds: l.RecipeIds,
		Archived:  l.Archived,
	}
}

type ShoppingList struct {
	Id         string                   `json:"listId"`
	Name       string                   `json:"name"`
	Items      []ShoppingListItem       `json:"items"`
	RecipeIds  []string                 `json:"recipeIds"`
	Archived   bool                     `json:"archived"`
	Progress   shoppingService.Progress `json:"progress"`
	CreateTime time.Time                `json:"createTime"`
	UpdateTime time.Time                `json:"updateTime"`
}

func NewShoppingList(list data.ShoppingListDTO) ShoppingList {
	recipeIds := list.RecipeIds
	if recipeIds == nil {
		recipeIds = []string{}
	}
	return ShoppingList{
		Id:         list.SK,
		Name:       list.Name,
		Items:      *util.MapOnList(&list.Items, ConvertItemDataToTransfer),
		RecipeIds:  recipeIds,
		Archived:   list.Archived,
		Progress:   shoppingService.GetProgress(list.Items),
		CreateTime: list.CreateTime,
		UpdateTime: list.UpdateTime,
	}
}
