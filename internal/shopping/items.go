package shopping

import (
	"context"
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/exceptions"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewItemId returns an id that sorts after every id previously generated by
// the process.
func NewItemId() (string, error) {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Mutation computes a new item sequence from the current one. Mutations
// never modify their argument.
type Mutation func([]data.ShoppingListItemDTO) []data.ShoppingListItemDTO

// Toggle flips the checked flag of the item with the id. Unknown ids leave the
// sequence unchanged.
func Toggle(itemId string) Mutation {
	return func(items []data.ShoppingListItemDTO) []data.ShoppingListItemDTO {
		updated := make([]data.ShoppingListItemDTO, len(items))
		for i, item := range items {
			if item.Id == itemId {
				item.Checked = !item.Checked
			}
			updated[i] = item
		}
		return updated
	}
}

func Add(newItem data.ShoppingListItemDTO) Mutation {
	return func(items []data.ShoppingListItemDTO) []data.ShoppingListItemDTO {
		updated := make([]data.ShoppingListItemDTO, 0, len(items)+1)
		updated = append(updated, items...)
		return append(updated, newItem)
	}
}

func Remove(itemId string) Mutation {
	return func(items []data.ShoppingListItemDTO) []data.ShoppingListItemDTO {
		updated := make([]data.ShoppingListItemDTO, 0, len(items))
		for _, item := range items {
			if item.Id != itemId {
				updated = append(updated, item)
			}
		}
		return updated
	}
}

func UncheckAll() Mutation {
	return func(items []data.ShoppingListItemDTO) []data.ShoppingListItemDTO {
		updated := make([]data.ShoppingListItemDTO, len(items))
		for i, item := range items {
			item.Checked = false
			updated[i] = item
		}
		return updated
	}
}

type ItemInput struct {
	Name     string
	Quantity string
	Category string
}

// ItemService rewrites the whole item sequence of a list for every item
// level change. There is no concurrency check: of two mutations computed
// from the same base, the last write wins.
type ItemService struct {
	Lists data.ShoppingListDataService
}

func NewItemService(lists data.ShoppingListDataService) *ItemService {
	return &ItemService{Lists: lists}
}

// ApplyTo computes the mutation over a snapshot the caller already holds,
// persists the result and returns the snapshot with the items as stored.
func (is *ItemService) ApplyTo(ctx context.Context, base data.ShoppingListDTO, mutation Mutation) (data.ShoppingListDTO, error) {
	items := mutation(base.Items)
	if items == nil {
		items = make([]data.ShoppingListItemDTO, 0)
	}
	updated, err := is.Lists.Update(ctx, base.SK, data.ShoppingListInputDTO{Items: &items})
	if err != nil {
		return base, err
	}
	base.Items = updated.Items
	return base, nil
}

// Apply reads the current list before applying the mutation.
func (is *ItemService) Apply(ctx context.Context, listId string, mutation Mutation) (data.ShoppingListDTO, error) {
	base, err := is.Lists.Get(ctx, listId)
	if err != nil {
		return base, err
	}
	return is.ApplyTo(ctx, base, mutation)
}

func NewItem(input ItemInput) (data.ShoppingListItemDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return data.ShoppingListItemDTO{}, exceptions.Wrap("shoppingLists.AddItem", exceptions.Required("name"))
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = data.DEFAULT_CATEGORY
	}
	id, err := NewItemId()
	if err != nil {
		return data.ShoppingListItemDTO{}, exceptions.Wrap("shoppingLists.AddItem", err)
	}
	return data.ShoppingListItemDTO{
		Id:       id,
		Name:     name,
		Quantity: strings.TrimSpace(input.Quantity),
		Checked:  false,
		Category: category,
	}, nil
}

func (is *ItemService) AddItem(ctx context.Context, listId string, input ItemInput) (data.ShoppingListDTO, error) {
	item, err := NewItem(input)
	if err != nil {
		return data.ShoppingListDTO{}, err
	}
	return is.Apply(ctx, listId, Add(item))
}

func (is *ItemService) ToggleItem(ctx context.Context, listId string, itemId string) (data.ShoppingListDTO, error) {
	return is.Apply(ctx, listId, Toggle(itemId))
}

func (is *ItemService) RemoveItem(ctx context.Context, listId string, itemId string) (data.ShoppingListDTO, error) {
	return is.Apply(ctx, listId, Remove(itemId))
}

func (is *ItemService) UncheckAll(ctx context.Context, listId string) (data.ShoppingListDTO, error) {
	return is.Apply(ctx, listId, UncheckAll())
}
