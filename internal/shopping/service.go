package shopping

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/services"
	"philcali.me/recipesync/internal/store"
	"philcali.me/recipesync/internal/token"
)

const (
	RESOURCE    = "shopping list"
	NAME_PREFIX = "Liste - "
)

type ShoppingListService struct {
	data.ShoppingListDataService
}

func Validate(input data.ShoppingListInputDTO) error {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return exceptions.Required("name")
	}
	return nil
}

// NormalizeItems drops items without a name, trims the text fields, assigns
// an id to items missing one and defaults their category. Ids supplied by the
// caller are kept but must be unique within the list.
func NormalizeItems(items []data.ShoppingListItemDTO) ([]data.ShoppingListItemDTO, error) {
	normal := make([]data.ShoppingListItemDTO, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			continue
		}
		item.Quantity = strings.TrimSpace(item.Quantity)
		item.Category = strings.TrimSpace(item.Category)
		if item.Category == "" {
			item.Category = data.DEFAULT_CATEGORY
		}
		item.Id = strings.TrimSpace(item.Id)
		if item.Id == "" {
			id, err := NewItemId()
			if err != nil {
				return nil, err
			}
			item.Id = id
		}
		if seen[item.Id] {
			return nil, exceptions.InvalidInput(fmt.Sprintf("item id %s appears more than once", item.Id))
		}
		seen[item.Id] = true
		normal = append(normal, item)
	}
	return normal, nil
}

func Prepare(input data.ShoppingListInputDTO) (data.ShoppingListInputDTO, error) {
	if input.Items == nil {
		return input, nil
	}
	items, err := NormalizeItems(*input.Items)
	if err != nil {
		return input, err
	}
	input.Items = &items
	return input, nil
}

func _items(items *[]data.ShoppingListItemDTO) []data.ShoppingListItemDTO {
	copied := make([]data.ShoppingListItemDTO, 0)
	if items != nil {
		copied = append(copied, *items...)
	}
	return copied
}

func _strings(values *[]string) []string {
	copied := make([]string, 0)
	if values != nil {
		copied = append(copied, *values...)
	}
	return copied
}

func NewShoppingListService(documents store.DocumentStore, marshaler token.TokenMarshaler) *ShoppingListService {
	return &ShoppingListService{
		ShoppingListDataService: &services.RepositoryService[data.ShoppingListDTO, data.ShoppingListInputDTO]{
			Store:          documents,
			TokenMarshaler: marshaler,
			Collection:     data.SHOPPING_LISTS_COLLECTION,
			Resource:       RESOURCE,
			Clock:          services.NewClock(),
			Prepare:        Prepare,
			Validate:       Validate,
			OnCreate: func(input data.ShoppingListInputDTO, now time.Time, collection string, id string) data.ShoppingListDTO {
				return data.ShoppingListDTO{
					PK:         collection,
					SK:         id,
					Name:       strings.TrimSpace(*input.Name),
					Items:      _items(input.Items),
					RecipeIds:  _strings(input.RecipeIds),
					Archived:   false,
					CreateTime: now,
					UpdateTime: now,
				}
			},
			OnUpdate: func(input data.ShoppingListInputDTO, update services.UpdateFields) error {
				if input.Name != nil {
					if err := Validate(input); err != nil {
						return err
					}
					update.Set("name", strings.TrimSpace(*input.Name))
				}
				if input.Items != nil {
					update.Set("items", _items(input.Items))
				}
				if input.RecipeIds != nil {
					update.Set("recipeIds", _strings(input.RecipeIds))
				}
				if input.Archived != nil {
					update.Set("archived", *input.Archived)
				}
				return nil
			},
		},
	}
}

// Archive flips the soft disable flag; archived lists stay readable.
func (s *ShoppingListService) Archive(ctx context.Context, listId string, archived bool) (data.ShoppingListDTO, error) {
	return s.Update(ctx, listId, data.ShoppingListInputDTO{
		Archived: aws.Bool(archived),
	})
}

// ListArchived reads pages until limit lists on the requested side of the
// archive flag are collected or the collection is exhausted. Each read asks
// only for the remaining count so the returned token resumes exactly after
// the last list examined.
func (s *ShoppingListService) ListArchived(ctx context.Context, params data.QueryParams, archived bool) (data.QueryResults[data.ShoppingListDTO], error) {
	limit := int(*params.GetLimit())
	results := data.QueryResults[data.ShoppingListDTO]{
		Items:     make([]data.ShoppingListDTO, 0, limit),
		NextToken: params.NextToken,
	}
	for {
		page, err := s.List(ctx, data.QueryParams{
			Limit:     limit - len(results.Items),
			NextToken: results.NextToken,
		})
		if err != nil {
			return results, err
		}
		active, archivedLists := Partition(page.Items)
		if archived {
			results.Items = append(results.Items, archivedLists...)
		} else {
			results.Items = append(results.Items, active...)
		}
		results.NextToken = page.NextToken
		if len(results.Items) >= limit || len(page.NextToken) == 0 {
			return results, nil
		}
	}
}

// CreateFromRecipe creates a list seeded with the recipe ingredients.
func (s *ShoppingListService) CreateFromRecipe(ctx context.Context, recipe data.RecipeDTO) (data.ShoppingListDTO, error) {
	input, err := FromRecipe(recipe)
	if err != nil {
		return data.ShoppingListDTO{}, exceptions.Wrap("shoppingLists.CreateFromRecipe", err)
	}
	return s.Create(ctx, input)
}

func FromRecipe(recipe data.RecipeDTO) (data.ShoppingListInputDTO, error) {
	items := make([]data.ShoppingListItemDTO, 0, len(recipe.Ingredients))
	for _, ingredient := range recipe.Ingredients {
		name := strings.TrimSpace(ingredient.Name)
		if name == "" {
			continue
		}
		id, err := NewItemId()
		if err != nil {
			return data.ShoppingListInputDTO{}, err
		}
		items = append(items, data.ShoppingListItemDTO{
			Id:       id,
			Name:     name,
			Quantity: strings.TrimSpace(ingredient.Quantity),
			Category: data.INGREDIENTS_CATEGORY,
		})
	}
	recipeIds := []string{}
	if recipe.SK != "" {
		recipeIds = append(recipeIds, recipe.SK)
	}
	return data.ShoppingListInputDTO{
		Name:      aws.String(fmt.Sprintf("%s%s", NAME_PREFIX, recipe.Title)),
		Items:     &items,
		RecipeIds: &recipeIds,
	}, nil
}

type Progress struct {
	Checked    int `json:"checked"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

func (p Progress) Completed() bool {
	return p.Total > 0 && p.Checked == p.Total
}

func GetProgress(items []data.ShoppingListItemDTO) Progress {
	progress := Progress{Total: len(items)}
	if progress.Total == 0 {
		return progress
	}
	for _, item := range items {
		if item.Checked {
			progress.Checked++
		}
	}
	progress.Percentage = (progress.Checked*200 + progress.Total) / (progress.Total * 2)
	return progress
}

// Partition splits lists into active and archived, keeping their order.
func Partition(lists []data.ShoppingListDTO) (active []data.ShoppingListDTO, archived []data.ShoppingListDTO) {
	active = make([]data.ShoppingListDTO, 0, len(lists))
	archived = make([]data.ShoppingListDTO, 0)
	for _, list := range lists {
		if list.Archived {
			archived = append(archived, list)
		} else {
			active = append(active, list)
		}
	}
	return active, archived
}
