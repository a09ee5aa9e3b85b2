package shopping

import (
	"context"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/routes"
	"philcali.me/recipesync/internal/routes/util"
	shoppingService "philcali.me/recipesync/internal/shopping"
)

type ShoppingListService struct {
	data    *shoppingService.ShoppingListService
	items   *shoppingService.ItemService
	recipes data.RecipeDataService
}

func NewRoute(lists *shoppingService.ShoppingListService, recipes data.RecipeDataService) routes.Service {
	return &ShoppingListService{
		data:    lists,
		items:   shoppingService.NewItemService(lists),
		recipes: recipes,
	}
}

func (sl *ShoppingListService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/lists":                              sl.ListShoppingLists,
		"GET:/lists/:listId":                      sl.GetShoppingList,
		"POST:/lists":                             sl.CreateShoppingList,
		"PUT:/lists/:listId":                      sl.UpdateShoppingList,
		"DELETE:/lists/:listId":                   sl.DeleteShoppingList,
		"PUT:/lists/:listId/archive":              sl.ArchiveShoppingList,
		"POST:/recipes/:recipeId/lists":           sl.CreateFromRecipe,
		"POST:/lists/:listId/items":               sl.AddItem,
		"PUT:/lists/:listId/items/:itemId/toggle": sl.ToggleItem,
		"DELETE:/lists/:listId/items/:itemId":     sl.RemoveItem,
		"POST:/lists/:listId/uncheck":             sl.UncheckAll,
	}
}

// ListShoppingLists accepts archived=true|false to fill the page with one
// side of the archive flag only.
func (sl *ShoppingListService) ListShoppingLists(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	value, ok := event.QueryStringParameters["archived"]
	if !ok {
		return util.SerializeList[data.ShoppingListDTO, data.ShoppingListInputDTO](sl.data, NewShoppingList, event, ctx)
	}
	archived, err := strconv.ParseBool(value)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("Archived parameter was not a boolean type.")
	}
	params, err := util.QueryParams(event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	page, err := sl.data.ListArchived(ctx, params, archived)
	return util.SerializeResponseOK(util.ConvertQueryResultsPartial(NewShoppingList), page, err)
}

func (sl *ShoppingListService) GetShoppingList(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	item, err := sl.data.Get(ctx, util.RequestParam(ctx, "listId"))
	return util.SerializeResponseOK(NewShoppingList, item, err)
}

func (sl *ShoppingListService) CreateShoppingList(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[ShoppingListInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	created, err := sl.data.Create(ctx, input.ToData())
	return util.SerializeResponseOK(NewShoppingList, created, err)
}

func (sl *ShoppingListService) UpdateShoppingList(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[ShoppingListInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	item, err := sl.data.Update(ctx, util.RequestParam(ctx, "listId"), input.ToData())
	return util.SerializeResponseOK(NewShoppingList, item, err)
}

func (sl *ShoppingListService) DeleteShoppingList(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	err := sl.data.Delete(ctx, util.RequestParam(ctx, "listId"))
	return util.SerializeResponseNoContent(err)
}

func (sl *ShoppingListService) ArchiveShoppingList(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[ArchiveInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	item, err := sl.data.Archive(ctx, util.RequestParam(ctx, "listId"), input.Archived)
	return util.SerializeResponseOK(NewShoppingList, item, err)
}

func (sl *ShoppingListService) CreateFromRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	recipe, err := sl.recipes.Get(ctx, util.RequestParam(ctx, "recipeId"))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	created, err := sl.data.CreateFromRecipe(ctx, recipe)
	return util.SerializeResponseOK(NewShoppingList, created, err)
}

func (sl *ShoppingListService) AddItem(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[ItemInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	item, err := sl.items.AddItem(ctx, util.RequestParam(ctx, "listId"), input.ToData())
	return util.SerializeResponseOK(NewShoppingList, item, err)
}

func (sl *ShoppingListService) ToggleItem(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	item, err := sl.items.ToggleItem(ctx, util.RequestParam(ctx, "listId"), util.RequestParam(ctx, "itemId"))
	return util.SerializeResponseOK(NewShoppingList, item, err)
}

func (sl *ShoppingListService) RemoveItem(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	item, err := sl.items.RemoveItem(ctx, util.RequestParam(ctx, "listId"), util.RequestParam(ctx, "itemId"))
	return util.SerializeResponseOK(NewShoppingList, item, err)
}

func (sl *ShoppingListService) UncheckAll(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	item, err := sl.items.UncheckAll(ctx, util.RequestParam(ctx, "listId"))
	return util.SerializeResponseOK(NewShoppingList, item, err)
}
