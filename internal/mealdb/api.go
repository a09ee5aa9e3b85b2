package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"philcali.me/recipesync/internal/config"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/provider"
)

const (
	PROVIDER_NAME    = "mealdb"
	DEFAULT_BASE_URL = "https://www.themealdb.com/api/json"
	REQUEST_TIMEOUT  = 10 * time.Second
)

type MealAPI struct {
	BaseURL string
	Version string
	Token   string
	Client  *http.Client
}

// StatusError is a non 2xx answer. Its Code follows the store error codes
// so it classifies like any other failure.
type StatusError struct {
	Resource   string
	StatusCode int
}

func (se *StatusError) Error() string {
	return fmt.Sprintf("%s request failed with status %d", se.Resource, se.StatusCode)
}

func (se *StatusError) Code() string {
	switch {
	case se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden:
		return "permission-denied"
	case se.StatusCode == http.StatusNotFound:
		return "not-found"
	case se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500:
		return "unavailable"
	}
	return "unknown"
}

func (mc *MealAPI) _url(resource string, params url.Values) string {
	base := strings.TrimSuffix(mc.BaseURL, "/")
	if base == "" {
		base = DEFAULT_BASE_URL
	}
	endpoint := fmt.Sprintf("%s/%s/%s/%s.php", base, mc.Version, mc.Token, resource)
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}
	return endpoint
}

func (mc *MealAPI) _apiRequest(ctx context.Context, resource string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mc._url(resource, params), nil)
	if err != nil {
		return err
	}
	resp, err := mc.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Resource: resource, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func _op(name string) string {
	return fmt.Sprintf("%s.%s", PROVIDER_NAME, name)
}

func (mc *MealAPI) _queryRequest(ctx context.Context, resource string, params url.Values) (data.QueryResults[provider.Recipe], error) {
	var query QueryResponse
	if err := mc._apiRequest(ctx, resource, params, &query); err != nil {
		return data.QueryResults[provider.Recipe]{}, err
	}
	items := make([]provider.Recipe, 0, len(query.Meals))
	for _, meal := range query.Meals {
		items = append(items, ToRecipe(meal))
	}
	return data.QueryResults[provider.Recipe]{Items: items}, nil
}

func (mc *MealAPI) Name() string {
	return PROVIDER_NAME
}

func (mc *MealAPI) Random(ctx context.Context) (data.QueryResults[provider.Recipe], error) {
	results, err := mc._queryRequest(ctx, "random", nil)
	return results, exceptions.Wrap(_op("Random"), err)
}

func (mc *MealAPI) Filter(ctx context.Context, input provider.FilterInput) (data.QueryResults[provider.Recipe], error) {
	params := url.Values{}
	if input.Category != nil {
		params.Set("c", *input.Category)
	}
	if input.Area != nil {
		params.Set("a", *input.Area)
	}
	if input.MainIngredient != nil {
		params.Set("i", *input.MainIngredient)
	}
	var filter FilterResponse
	if err := mc._apiRequest(ctx, "filter", params, &filter); err != nil {
		return data.QueryResults[provider.Recipe]{}, exceptions.Wrap(_op("Filter"), err)
	}
	items := make([]provider.Recipe, 0, len(filter.Meals))
	for _, meal := range filter.Meals {
		items = append(items, ConvertFilteredToRecipe(meal))
	}
	return data.QueryResults[provider.Recipe]{Items: items}, nil
}

// Lookup fails with NotFound when the provider knows no meal with the id.
func (mc *MealAPI) Lookup(ctx context.Context, id string) (provider.Recipe, error) {
	results, err := mc._queryRequest(ctx, "lookup", url.Values{"i": []string{id}})
	if err != nil {
		return provider.Recipe{}, exceptions.Wrap(_op("Lookup"), err)
	}
	if len(results.Items) == 0 {
		return provider.Recipe{}, exceptions.Wrap(_op("Lookup"), exceptions.NotFound("meal", id))
	}
	return results.Items[0], nil
}

func (mc *MealAPI) Search(ctx context.Context, text string) (data.QueryResults[provider.Recipe], error) {
	results, err := mc._queryRequest(ctx, "search", url.Values{"s": []string{text}})
	return results, exceptions.Wrap(_op("Search"), err)
}

func (mc *MealAPI) Categories(ctx context.Context) ([]provider.Category, error) {
	var response CategoryResponse
	if err := mc._apiRequest(ctx, "categories", nil, &response); err != nil {
		return nil, exceptions.Wrap(_op("Categories"), err)
	}
	categories := make([]provider.Category, 0, len(response.Categories))
	for _, category := range response.Categories {
		categories = append(categories, ConvertCategory(category))
	}
	return categories, nil
}

func NewMealClient(cfg config.MealDB) provider.RecipeProvider {
	return &MealAPI{
		BaseURL: cfg.BaseURL,
		Version: cfg.Version,
		Token:   cfg.Token,
		Client:  &http.Client{Timeout: REQUEST_TIMEOUT},
	}
}

func NewDefaultMealClient() provider.RecipeProvider {
	return NewMealClient(config.MealDB{
		BaseURL: DEFAULT_BASE_URL,
		Version: "v1",
		Token:   "1",
	})
}
