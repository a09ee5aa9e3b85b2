package mealdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/recipesync/internal/config"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/mealdb"
	"philcali.me/recipesync/internal/provider"
)

const ARRABIATA = `{"meals":[{
	"idMeal":"52771",
	"strMeal":"Spicy Arrabiata Penne",
	"strCategory":"Vegetarian",
	"strArea":"Italian",
	"strInstructions":"Bring a large pot of water to a boil.",
	"strMealThumb":"https://www.themealdb.com/images/media/meals/ustsqw1468250014.jpg",
	"strSource":null,
	"strIngredient1":"penne rigate",
	"strIngredient2":"olive oil",
	"strIngredient3":" ",
	"strIngredient4":"garlic",
	"strIngredient5":null,
	"strMeasure1":"1 pound",
	"strMeasure2":"1/4 cup ",
	"strMeasure3":"",
	"strMeasure4":null,
	"strMeasure5":null
}]}`

func newServer(t *testing.T, handler http.HandlerFunc) provider.RecipeProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return mealdb.NewMealClient(config.MealDB{
		BaseURL: server.URL,
		Version: "v1",
		Token:   "1",
	})
}

func TestMealAPI(t *testing.T) {
	ctx := context.Background()

	t.Run("Search(text)", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/1/search.php", r.URL.Path)
			assert.Equal(t, "Arrabiata penne", r.URL.Query().Get("s"))
			w.Write([]byte(ARRABIATA))
		})
		results, err := client.Search(ctx, "Arrabiata penne")
		require.NoError(t, err)
		require.Len(t, results.Items, 1)
		recipe := results.Items[0]
		assert.Equal(t, "52771", recipe.Id)
		assert.Equal(t, "Spicy Arrabiata Penne", recipe.Title)
		assert.Equal(t, "", recipe.Source)
		assert.Equal(t, []data.IngredientDTO{
			{Name: "penne rigate", Quantity: "1 pound"},
			{Name: "olive oil", Quantity: "1/4 cup"},
			{Name: "garlic", Quantity: ""},
		}, recipe.Ingredients)
	})

	t.Run("Search(no match)==empty", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"meals":null}`))
		})
		results, err := client.Search(ctx, "zzz")
		require.NoError(t, err)
		assert.NotNil(t, results.Items)
		assert.Empty(t, results.Items)
	})

	t.Run("Lookup(id)", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/1/lookup.php", r.URL.Path)
			assert.Equal(t, "52771", r.URL.Query().Get("i"))
			w.Write([]byte(ARRABIATA))
		})
		recipe, err := client.Lookup(ctx, "52771")
		require.NoError(t, err)
		assert.Equal(t, "Italian", recipe.Area)
	})

	t.Run("Lookup(missing)==NotFound", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"meals":null}`))
		})
		_, err := client.Lookup(ctx, "1")
		assert.Equal(t, exceptions.KindNotFound, exceptions.Classify(err))
		var nfe *exceptions.NotFoundError
		assert.True(t, errors.As(err, &nfe))
	})

	t.Run("Categories()", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/1/categories.php", r.URL.Path)
			w.Write([]byte(`{"categories":[{"idCategory":"1","strCategory":"Beef","strCategoryThumb":"beef.png","strCategoryDescription":"Meat"}]}`))
		})
		categories, err := client.Categories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []provider.Category{{Id: "1", Name: "Beef", Thumbnail: "beef.png", Description: "Meat"}}, categories)
	})

	t.Run("Filter(category)", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Seafood", r.URL.Query().Get("c"))
			w.Write([]byte(`{"meals":[{"idMeal":"52959","strMeal":"Baked salmon","strMealThumb":"salmon.jpg"}]}`))
		})
		category := "Seafood"
		results, err := client.Filter(ctx, provider.FilterInput{Category: &category})
		require.NoError(t, err)
		require.Len(t, results.Items, 1)
		assert.Equal(t, "Baked salmon", results.Items[0].Title)
	})

	t.Run("5xx==ServiceUnavailable", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := client.Random(ctx)
		assert.Equal(t, exceptions.KindServiceUnavailable, exceptions.Classify(err))
	})

	t.Run("connection refused==NetworkUnavailable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := mealdb.NewMealClient(config.MealDB{BaseURL: server.URL, Version: "v1", Token: "1"})
		_, err := client.Search(ctx, "x")
		assert.Equal(t, exceptions.KindNetworkUnavailable, exceptions.Classify(err))
	})
}

func TestToRecipeInput(t *testing.T) {
	input := mealdb.ToRecipeInput(provider.Recipe{
		Id:           "52771",
		Title:        "Spicy Arrabiata Penne",
		Category:     "Vegetarian",
		Area:         "Italian",
		Instructions: "Boil.",
		Thumbnail:    "penne.jpg",
		Ingredients:  []data.IngredientDTO{{Name: "penne rigate", Quantity: "1 pound"}},
	})
	assert.Equal(t, "Spicy Arrabiata Penne", *input.Title)
	assert.Equal(t, "Vegetarian · Italian", *input.Description)
	assert.Equal(t, "Boil.", *input.Steps)
	assert.Equal(t, "mealdb:52771", *input.Source)
	assert.Equal(t, "penne.jpg", *input.Thumbnail)
	assert.Len(t, *input.Ingredients, 1)

	bare := mealdb.ToRecipeInput(provider.Recipe{Id: "1", Title: "Toast"})
	assert.Equal(t, "Toast", *bare.Description)
	assert.Nil(t, bare.Thumbnail)
}
