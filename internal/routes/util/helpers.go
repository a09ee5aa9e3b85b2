package util

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/routes"
)

// ListResponse is the wire shape of a page. The token is passed back
// verbatim in the nextToken query parameter.
type ListResponse[R interface{}] struct {
	Items     []R     `json:"items"`
	NextToken *string `json:"nextToken,omitempty"`
}

func RequestParam(ctx context.Context, name string) string {
	if params, ok := ctx.Value(routes.PARAMS_KEY).(map[string]string); ok {
		return params[name]
	}
	return ""
}

func QueryParams(event events.APIGatewayV2HTTPRequest) (data.QueryParams, error) {
	params := data.QueryParams{}
	if sLimit, ok := event.QueryStringParameters["limit"]; ok {
		limit, err := strconv.Atoi(sLimit)
		if err != nil {
			return params, exceptions.InvalidInput("Limit parameter was not a number type.")
		}
		params.Limit = limit
	}
	if token, ok := event.QueryStringParameters["nextToken"]; ok {
		params.NextToken = []byte(token)
	}
	return params, nil
}

func ParseBody[I interface{}](event events.APIGatewayV2HTTPRequest) (I, error) {
	var input I
	if err := json.Unmarshal([]byte(event.Body), &input); err != nil {
		return input, exceptions.InvalidInput(err.Error())
	}
	return input, nil
}

func IdentityThunk[T interface{}](thing T) T {
	return thing
}

func MapOnList[T interface{}, R interface{}](items *[]T, thunk func(T) R) *[]R {
	if items == nil {
		return nil
	}
	results := make([]R, len(*items))
	for i, item := range *items {
		results[i] = thunk(item)
	}
	return &results
}

func SerializeResponse[T interface{}, R interface{}](delayed func(T) R, thing T, err error, statusCode int) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	body, err := json.Marshal(delayed(thing))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	headers := map[string]string{
		"Content-Type":   "application/json",
		"Content-Length": strconv.Itoa(len(body)),
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

func SerializeResponseOK[T interface{}, R interface{}](delayed func(T) R, thing T, err error) (events.APIGatewayV2HTTPResponse, error) {
	return SerializeResponse(delayed, thing, err, 200)
}

func SerializeResponseNoContent(err error) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: 204,
	}, nil
}

func ConvertQueryResults[D interface{}, R interface{}](items data.QueryResults[D], thunk func(D) R) ListResponse[R] {
	converted := ListResponse[R]{
		Items: make([]R, len(items.Items)),
	}
	for i, rd := range items.Items {
		converted.Items[i] = thunk(rd)
	}
	if len(items.NextToken) > 0 {
		nextToken := string(items.NextToken)
		converted.NextToken = &nextToken
	}
	return converted
}

func ConvertQueryResultsPartial[D interface{}, R interface{}](thunk func(D) R) func(data.QueryResults[D]) ListResponse[R] {
	return func(d data.QueryResults[D]) ListResponse[R] {
		return ConvertQueryResults(d, thunk)
	}
}

// SerializeList reads one page of the repository using the request's
// limit and nextToken parameters.
func SerializeList[D interface{}, I interface{}, R interface{}](repo data.Repository[D, I], thunk func(D) R, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	params, err := QueryParams(event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	items, err := repo.List(ctx, params)
	return SerializeResponseOK(ConvertQueryResultsPartial(thunk), items, err)
}
