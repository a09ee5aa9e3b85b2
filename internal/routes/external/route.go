package external

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/mealdb"
	"philcali.me/recipesync/internal/provider"
	"philcali.me/recipesync/internal/routes"
	"philcali.me/recipesync/internal/routes/recipes"
	"philcali.me/recipesync/internal/routes/util"
)

type ExternalService struct {
	Service provider.RecipeProvider
	Recipes data.RecipeDataService
}

func NewExternalService(service provider.RecipeProvider, recipes data.RecipeDataService) routes.Service {
	return &ExternalService{
		Service: service,
		Recipes: recipes,
	}
}

func (es *ExternalService) _path(suffix string) string {
	return fmt.Sprintf("/providers/%s%s", es.Service.Name(), suffix)
}

func (es *ExternalService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:" + es._path(""):                         es.Search,
		"GET:" + es._path("/categories"):              es.Categories,
		"GET:" + es._path("/random"):                  es.Random,
		"GET:" + es._path("/:mealId/recipes"):         es.Lookup,
		"POST:" + es._path("/:mealId/recipes/import"): es.Import,
	}
}

func (es *ExternalService) Lookup(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	query, err := es.Service.Lookup(ctx, util.RequestParam(ctx, "mealId"))
	return util.SerializeResponseOK(util.IdentityThunk[provider.Recipe], query, err)
}

// Search filters by category, area or ingredient when one of those is set
// and falls back to a free text search otherwise.
func (es *ExternalService) Search(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	filter := provider.FilterInput{}
	if category, ok := event.QueryStringParameters["category"]; ok {
		filter.Category = &category
	}
	if area, ok := event.QueryStringParameters["area"]; ok {
		filter.Area = &area
	}
	if ingredient, ok := event.QueryStringParameters["ingredient"]; ok {
		filter.MainIngredient = &ingredient
	}
	if filter.Category != nil || filter.Area != nil || filter.MainIngredient != nil {
		query, err := es.Service.Filter(ctx, filter)
		return util.SerializeResponseOK(util.IdentityThunk[data.QueryResults[provider.Recipe]], query, err)
	}
	text, ok := event.QueryStringParameters["search"]
	if !ok {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("Need a search parameter set")
	}
	query, err := es.Service.Search(ctx, text)
	return util.SerializeResponseOK(util.IdentityThunk[data.QueryResults[provider.Recipe]], query, err)
}

func (es *ExternalService) Random(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	query, err := es.Service.Random(ctx)
	return util.SerializeResponseOK(util.IdentityThunk[data.QueryResults[provider.Recipe]], query, err)
}

func (es *ExternalService) Categories(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	categories, err := es.Service.Categories(ctx)
	return util.SerializeResponseOK(util.IdentityThunk[[]provider.Category], categories, err)
}

// Import copies a provider recipe into the recipes collection.
func (es *ExternalService) Import(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	found, err := es.Service.Lookup(ctx, util.RequestParam(ctx, "mealId"))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	created, err := es.Recipes.Create(ctx, mealdb.ToRecipeInput(found))
	return util.SerializeResponseOK(recipes.NewFullRecipe, created, err)
}
