package recipes_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/memory"
	"philcali.me/recipesync/internal/recipes"
	"philcali.me/recipesync/internal/store"
	"philcali.me/recipesync/internal/token"
)

func newService(t *testing.T) (data.RecipeDataService, *memory.Store) {
	t.Helper()
	documents := memory.New()
	require.NoError(t, documents.Open(context.Background()))
	t.Cleanup(func() {
		documents.Close()
	})
	return recipes.NewRecipeService(documents, token.NewGCM("test")), documents
}

func crepes() data.RecipeInputDTO {
	return data.RecipeInputDTO{
		Title:       aws.String("Crêpes"),
		Description: aws.String("Thin pancakes"),
		Ingredients: &[]data.IngredientDTO{
			{Name: "Farine", Quantity: "250 g"},
			{Name: "Lait", Quantity: "50 cl"},
		},
		Steps: aws.String("Mix. Rest. Cook."),
	}
}

func TestRecipeService(t *testing.T) {
	ctx := context.Background()

	t.Run("Get(Create(x))==x", func(t *testing.T) {
		service, _ := newService(t)
		created, err := service.Create(ctx, crepes())
		require.NoError(t, err)
		assert.NotEmpty(t, created.SK)
		assert.Equal(t, data.RECIPES_COLLECTION, created.PK)
		assert.Equal(t, created.CreateTime, created.UpdateTime)

		fetched, err := service.Get(ctx, created.SK)
		require.NoError(t, err)
		assert.Equal(t, created.SK, fetched.SK)
		assert.Equal(t, "Crêpes", fetched.Title)
		assert.Equal(t, "Thin pancakes", fetched.Description)
		assert.Equal(t, *crepes().Ingredients, fetched.Ingredients)
		assert.True(t, created.CreateTime.Equal(fetched.CreateTime))
	})

	t.Run("Create(defaults)", func(t *testing.T) {
		service, _ := newService(t)
		created, err := service.Create(ctx, data.RecipeInputDTO{
			Title:       aws.String("Soupe"),
			Description: aws.String("Hot"),
		})
		require.NoError(t, err)
		assert.Equal(t, data.DEFAULT_DURATION, created.Duration)
		assert.Equal(t, data.DEFAULT_DIFFICULTY, created.Difficulty)
		assert.NotNil(t, created.Ingredients)
		assert.Nil(t, created.Source)
	})

	t.Run("Create(missing title)==ValidationFailed", func(t *testing.T) {
		service, documents := newService(t)
		input := crepes()
		input.Title = aws.String("  ")
		_, err := service.Create(ctx, input)
		require.Error(t, err)
		assert.Equal(t, exceptions.KindValidationFailed, exceptions.Classify(err))
		assert.Equal(t, "title is required", exceptions.Message(err))

		page, err := documents.Query(ctx, data.RECIPES_COLLECTION, store.QueryInput{})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("Create(missing description)==ValidationFailed", func(t *testing.T) {
		service, _ := newService(t)
		input := crepes()
		input.Description = nil
		_, err := service.Create(ctx, input)
		assert.Equal(t, exceptions.KindValidationFailed, exceptions.Classify(err))
	})

	t.Run("Update(partial)", func(t *testing.T) {
		service, _ := newService(t)
		created, err := service.Create(ctx, crepes())
		require.NoError(t, err)

		updated, err := service.Update(ctx, created.SK, data.RecipeInputDTO{
			Difficulty: aws.String("Facile"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Facile", updated.Difficulty)
		assert.Equal(t, "Crêpes", updated.Title)
		assert.Equal(t, "Mix. Rest. Cook.", updated.Steps)
		assert.True(t, updated.UpdateTime.After(created.UpdateTime))
		assert.True(t, updated.CreateTime.Equal(created.CreateTime))

		again, err := service.Update(ctx, created.SK, data.RecipeInputDTO{})
		require.NoError(t, err)
		assert.True(t, again.UpdateTime.After(updated.UpdateTime))
		assert.Equal(t, "Facile", again.Difficulty)
	})

	t.Run("Update(blank title)==ValidationFailed", func(t *testing.T) {
		service, _ := newService(t)
		created, err := service.Create(ctx, crepes())
		require.NoError(t, err)
		_, err = service.Update(ctx, created.SK, data.RecipeInputDTO{Title: aws.String("")})
		assert.Equal(t, exceptions.KindValidationFailed, exceptions.Classify(err))
	})

	t.Run("Update(missing)==NotFound", func(t *testing.T) {
		service, _ := newService(t)
		_, err := service.Update(ctx, "missing", data.RecipeInputDTO{Title: aws.String("x")})
		require.Error(t, err)
		assert.Equal(t, exceptions.KindNotFound, exceptions.Classify(err))
		var nfe *exceptions.NotFoundError
		require.True(t, errors.As(err, &nfe))
		assert.Equal(t, recipes.RESOURCE, nfe.Resource)
		assert.Equal(t, "missing", nfe.Id)
	})

	t.Run("Get(Delete(x))==NotFound", func(t *testing.T) {
		service, _ := newService(t)
		created, err := service.Create(ctx, crepes())
		require.NoError(t, err)
		require.NoError(t, service.Delete(ctx, created.SK))

		_, err = service.Get(ctx, created.SK)
		assert.Equal(t, exceptions.KindNotFound, exceptions.Classify(err))
		assert.Equal(t, "The requested item could not be found.", exceptions.Message(err))
	})

	t.Run("Delete(missing)==nil", func(t *testing.T) {
		service, _ := newService(t)
		assert.NoError(t, service.Delete(ctx, "missing"))
	})

	t.Run("All()==newest first", func(t *testing.T) {
		service, _ := newService(t)
		all, err := service.All(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)

		var ids []string
		for _, title := range []string{"A", "B", "C"} {
			input := crepes()
			input.Title = aws.String(title)
			created, err := service.Create(ctx, input)
			require.NoError(t, err)
			ids = append([]string{created.SK}, ids...)
		}
		all, err = service.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		for i, recipe := range all {
			assert.Equal(t, ids[i], recipe.SK)
		}
		assert.Equal(t, "C", all[0].Title)
	})

	t.Run("List(paged)", func(t *testing.T) {
		service, _ := newService(t)
		for i := 0; i < 5; i++ {
			_, err := service.Create(ctx, crepes())
			require.NoError(t, err)
		}
		first, err := service.List(ctx, data.QueryParams{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, first.Items, 2)
		require.NotNil(t, first.NextToken)

		seen := map[string]bool{}
		params := data.QueryParams{Limit: 2}
		pages := 0
		for {
			results, err := service.List(ctx, params)
			require.NoError(t, err)
			pages++
			for _, item := range results.Items {
				assert.False(t, seen[item.SK])
				seen[item.SK] = true
			}
			if results.NextToken == nil {
				break
			}
			params.NextToken = results.NextToken
		}
		assert.Equal(t, 3, pages)
		assert.Len(t, seen, 5)
	})

	t.Run("List(bad token)==ValidationFailed", func(t *testing.T) {
		service, _ := newService(t)
		_, err := service.List(ctx, data.QueryParams{NextToken: []byte("garbage")})
		assert.Equal(t, exceptions.KindValidationFailed, exceptions.Classify(err))
	})

	t.Run("Get(malformed)==InternalServer", func(t *testing.T) {
		service, documents := newService(t)
		require.NoError(t, documents.Put(ctx, data.RECIPES_COLLECTION, "broken", store.Item{
			"PK":    &types.AttributeValueMemberS{Value: data.RECIPES_COLLECTION},
			"SK":    &types.AttributeValueMemberS{Value: "broken"},
			"title": &types.AttributeValueMemberBOOL{Value: true},
		}))
		_, err := service.Get(ctx, "broken")
		var ie *exceptions.InternalServerError
		require.True(t, errors.As(err, &ie), err)
		assert.Equal(t, 500, ie.ToServiceError().StatusCode)
		assert.Equal(t, exceptions.KindUnknown, exceptions.Classify(err))
	})

	t.Run("closed store fails fast", func(t *testing.T) {
		service, documents := newService(t)
		require.NoError(t, documents.Close())
		_, err := service.All(ctx)
		require.Error(t, err)
		var se *exceptions.StoreError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, exceptions.KindUnknown, se.Kind)
		assert.Equal(t, "recipes.All", se.Op)
		var ne *exceptions.NotInitializedError
		assert.True(t, errors.As(err, &ne))
	})
}
