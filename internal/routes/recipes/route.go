package recipes

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/routes"
	"philcali.me/recipesync/internal/routes/util"
)

type RecipeService struct {
	data data.RecipeDataService
}

func NewRoute(data data.RecipeDataService) routes.Service {
	return &RecipeService{
		data: data,
	}
}

func (rs *RecipeService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/recipes":              rs.ListRecipes,
		"GET:/recipes/:recipeId":    rs.GetRecipe,
		"POST:/recipes":             rs.CreateRecipe,
		"PUT:/recipes/:recipeId":    rs.UpdateRecipe,
		"DELETE:/recipes/:recipeId": rs.DeleteRecipe,
	}
}

func (rs *RecipeService) ListRecipes(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeList[data.RecipeDTO, data.RecipeInputDTO](rs.data, StripFields(event), event, ctx)
}

func (rs *RecipeService) GetRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	item, err := rs.data.Get(ctx, util.RequestParam(ctx, "recipeId"))
	return util.SerializeResponseOK(NewFullRecipe, item, err)
}

func (rs *RecipeService) CreateRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[RecipeInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	created, err := rs.data.Create(ctx, input.ToData())
	return util.SerializeResponseOK(NewFullRecipe, created, err)
}

func (rs *RecipeService) UpdateRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[RecipeInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	item, err := rs.data.Update(ctx, util.RequestParam(ctx, "recipeId"), input.ToData())
	return util.SerializeResponseOK(NewFullRecipe, item, err)
}

func (rs *RecipeService) DeleteRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	err := rs.data.Delete(ctx, util.RequestParam(ctx, "recipeId"))
	return util.SerializeResponseNoContent(err)
}
