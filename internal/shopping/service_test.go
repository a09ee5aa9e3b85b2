package shopping_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/memory"
	"philcali.me/recipesync/internal/shopping"
	"philcali.me/recipesync/internal/token"
)

func newService(t *testing.T) *shopping.ShoppingListService {
	t.Helper()
	documents := memory.New()
	require.NoError(t, documents.Open(context.Background()))
	t.Cleanup(func() {
		documents.Close()
	})
	return shopping.NewShoppingListService(documents, token.NewGCM("test"))
}

func TestShoppingListService(t *testing.T) {
	ctx := context.Background()

	t.Run("Create(name)", func(t *testing.T) {
		service := newService(t)
		created, err := service.Create(ctx, data.ShoppingListInputDTO{
			Name:     aws.String(" Weekly "),
			Archived: aws.Bool(true),
		})
		require.NoError(t, err)
		assert.Equal(t, "Weekly", created.Name)
		assert.False(t, created.Archived)
		assert.NotNil(t, created.Items)
		assert.NotNil(t, created.RecipeIds)
		assert.Equal(t, created.CreateTime, created.UpdateTime)

		fetched, err := service.Get(ctx, created.SK)
		require.NoError(t, err)
		assert.Equal(t, "Weekly", fetched.Name)
		assert.Empty(t, fetched.Items)
	})

	t.Run("Create(no name)==ValidationFailed", func(t *testing.T) {
		service := newService(t)
		_, err := service.Create(ctx, data.ShoppingListInputDTO{})
		assert.Equal(t, exceptions.KindValidationFailed, exceptions.Classify(err))
		assert.Equal(t, "name is required", exceptions.Message(err))
	})

	t.Run("Create(items without ids)", func(t *testing.T) {
		service := newService(t)
		created, err := service.Create(ctx, data.ShoppingListInputDTO{
			Name: aws.String("Weekly"),
			Items: &[]data.ShoppingListItemDTO{
				{Name: " Milk ", Quantity: " 1L "},
				{Name: "   "},
				{Name: "Eggs", Category: "Frais"},
			},
		})
		require.NoError(t, err)
		require.Len(t, created.Items, 2)
		milk, eggs := created.Items[0], created.Items[1]
		assert.NotEmpty(t, milk.Id)
		assert.NotEmpty(t, eggs.Id)
		assert.NotEqual(t, milk.Id, eggs.Id)
		assert.Equal(t, "Milk", milk.Name)
		assert.Equal(t, "1L", milk.Quantity)
		assert.Equal(t, data.DEFAULT_CATEGORY, milk.Category)
		assert.Equal(t, "Frais", eggs.Category)

		toggled, err := shopping.NewItemService(service).ToggleItem(ctx, created.SK, milk.Id)
		require.NoError(t, err)
		assert.True(t, toggled.Items[0].Checked)
		assert.False(t, toggled.Items[1].Checked)
	})

	t.Run("Update(items)", func(t *testing.T) {
		service := newService(t)
		created, err := service.Create(ctx, data.ShoppingListInputDTO{Name: aws.String("Weekly")})
		require.NoError(t, err)

		updated, err := service.Update(ctx, created.SK, data.ShoppingListInputDTO{
			Items: &[]data.ShoppingListItemDTO{
				{Id: "A", Name: "Milk"},
				{Name: "Eggs"},
			},
		})
		require.NoError(t, err)
		require.Len(t, updated.Items, 2)
		assert.Equal(t, "A", updated.Items[0].Id)
		assert.NotEmpty(t, updated.Items[1].Id)
		assert.NotEqual(t, "A", updated.Items[1].Id)
		assert.Equal(t, data.DEFAULT_CATEGORY, updated.Items[1].Category)
	})

	t.Run("Update(duplicate item ids)==ValidationFailed", func(t *testing.T) {
		service := newService(t)
		created, err := service.Create(ctx, data.ShoppingListInputDTO{Name: aws.String("Weekly")})
		require.NoError(t, err)

		_, err = service.Update(ctx, created.SK, data.ShoppingListInputDTO{
			Items: &[]data.ShoppingListItemDTO{
				{Id: "A", Name: "Milk"},
				{Id: "A", Name: "Eggs"},
			},
		})
		assert.Equal(t, exceptions.KindValidationFailed, exceptions.Classify(err))

		fetched, err := service.Get(ctx, created.SK)
		require.NoError(t, err)
		assert.Empty(t, fetched.Items)
	})

	t.Run("Archive(id)", func(t *testing.T) {
		service := newService(t)
		created, err := service.Create(ctx, data.ShoppingListInputDTO{Name: aws.String("Weekly")})
		require.NoError(t, err)

		archived, err := service.Archive(ctx, created.SK, true)
		require.NoError(t, err)
		assert.True(t, archived.Archived)
		assert.Equal(t, "Weekly", archived.Name)

		restored, err := service.Archive(ctx, created.SK, false)
		require.NoError(t, err)
		assert.False(t, restored.Archived)
		assert.True(t, restored.UpdateTime.After(archived.UpdateTime))
	})

	t.Run("ListArchived(fills the page)", func(t *testing.T) {
		service := newService(t)
		archivedIds := map[string]bool{}
		for i := 0; i < 6; i++ {
			created, err := service.Create(ctx, data.ShoppingListInputDTO{Name: aws.String(fmt.Sprintf("List %d", i))})
			require.NoError(t, err)
			if i%3 == 0 {
				_, err := service.Archive(ctx, created.SK, true)
				require.NoError(t, err)
				archivedIds[created.SK] = true
			}
		}

		first, err := service.ListArchived(ctx, data.QueryParams{Limit: 2}, false)
		require.NoError(t, err)
		require.Len(t, first.Items, 2)
		require.NotEmpty(t, first.NextToken)

		second, err := service.ListArchived(ctx, data.QueryParams{Limit: 2, NextToken: first.NextToken}, false)
		require.NoError(t, err)
		require.Len(t, second.Items, 2)

		seen := map[string]bool{}
		for _, list := range append(first.Items, second.Items...) {
			assert.False(t, list.Archived)
			assert.False(t, seen[list.SK])
			seen[list.SK] = true
		}

		archived, err := service.ListArchived(ctx, data.QueryParams{Limit: 10}, true)
		require.NoError(t, err)
		require.Len(t, archived.Items, 2)
		assert.Empty(t, archived.NextToken)
		for _, list := range archived.Items {
			assert.True(t, archivedIds[list.SK])
		}
	})

	t.Run("Archive(missing)==NotFound", func(t *testing.T) {
		service := newService(t)
		_, err := service.Archive(ctx, "missing", true)
		assert.Equal(t, exceptions.KindNotFound, exceptions.Classify(err))
	})

	t.Run("CreateFromRecipe(recipe)", func(t *testing.T) {
		service := newService(t)
		created, err := service.CreateFromRecipe(ctx, data.RecipeDTO{
			SK:    "recipe-1",
			Title: "Crêpes",
			Ingredients: []data.IngredientDTO{
				{Name: " Farine ", Quantity: " 250 g "},
				{Name: "  ", Quantity: "1"},
				{Name: "Lait", Quantity: ""},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "Liste - Crêpes", created.Name)
		assert.Equal(t, []string{"recipe-1"}, created.RecipeIds)
		require.Len(t, created.Items, 2)
		assert.Equal(t, "Farine", created.Items[0].Name)
		assert.Equal(t, "250 g", created.Items[0].Quantity)
		assert.Equal(t, "Lait", created.Items[1].Name)
		for _, item := range created.Items {
			assert.Equal(t, data.INGREDIENTS_CATEGORY, item.Category)
			assert.False(t, item.Checked)
			assert.NotEmpty(t, item.Id)
		}
		assert.Less(t, created.Items[0].Id, created.Items[1].Id)
	})
}

func TestGetProgress(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		progress := shopping.GetProgress(nil)
		assert.Equal(t, shopping.Progress{}, progress)
		assert.False(t, progress.Completed())
	})

	t.Run("rounded", func(t *testing.T) {
		progress := shopping.GetProgress([]data.ShoppingListItemDTO{
			{Id: "a", Checked: true},
			{Id: "b"},
			{Id: "c"},
		})
		assert.Equal(t, shopping.Progress{Checked: 1, Total: 3, Percentage: 33}, progress)

		progress = shopping.GetProgress([]data.ShoppingListItemDTO{
			{Id: "a", Checked: true},
			{Id: "b", Checked: true},
			{Id: "c"},
		})
		assert.Equal(t, 67, progress.Percentage)
	})

	t.Run("completed", func(t *testing.T) {
		progress := shopping.GetProgress([]data.ShoppingListItemDTO{
			{Id: "a", Checked: true},
		})
		assert.Equal(t, 100, progress.Percentage)
		assert.True(t, progress.Completed())
	})
}

func TestPartition(t *testing.T) {
	lists := []data.ShoppingListDTO{
		{SK: "4", Archived: true},
		{SK: "3"},
		{SK: "2", Archived: true},
		{SK: "1"},
	}
	active, archived := shopping.Partition(lists)
	assert.Equal(t, []data.ShoppingListDTO{{SK: "3"}, {SK: "1"}}, active)
	assert.Equal(t, []data.ShoppingListDTO{{SK: "4", Archived: true}, {SK: "2", Archived: true}}, archived)

	active, archived = shopping.Partition(nil)
	assert.Empty(t, active)
	assert.Empty(t, archived)
}
