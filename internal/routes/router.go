package routes

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/logger"
	"philcali.me/recipesync/internal/routes/filters"
)

type paramsKey struct{}

// PARAMS_KEY holds the matched path parameters in the route context.
var PARAMS_KEY = paramsKey{}

type Route func(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error)

type Service interface {
	GetRoutes() map[string]Route
}

type CachedMatcher struct {
	Matcher    *regexp.Regexp
	ParamNames []string
	Mutex      *sync.Mutex
}

type CachedRoute struct {
	Method  string
	Path    string
	Route   Route
	Matcher *CachedMatcher
}

func (cr *CachedMatcher) Refresh(path string) *regexp.Regexp {
	cr.Mutex.Lock()
	defer cr.Mutex.Unlock()
	if cr.Matcher == nil {
		namex := regexp.MustCompile(":[^/]+")
		regexPath := namex.ReplaceAllStringFunc(path, func(found string) string {
			cr.ParamNames = append(cr.ParamNames, found[1:])
			return "([^/]+)"
		})
		cr.Matcher = regexp.MustCompile("^" + regexPath + "$")
	}
	return cr.Matcher
}

func (cr *CachedRoute) MatchEvent(event events.APIGatewayV2HTTPRequest) (map[string]string, bool) {
	if event.RequestContext.HTTP.Method != cr.Method {
		return nil, false
	}
	if event.RawPath == cr.Path {
		return map[string]string{}, true
	}
	matcher := cr.Matcher.Refresh(cr.Path)
	values := matcher.FindStringSubmatch(event.RawPath)
	if values == nil {
		return nil, false
	}
	params := make(map[string]string, len(cr.Matcher.ParamNames))
	for i, p := range cr.Matcher.ParamNames {
		params[p] = values[i+1]
	}
	return params, true
}

type Router struct {
	Filters []filters.RequestFilter
	Routes  []CachedRoute
	Logger  *zap.Logger
}

func NewRouter(services ...Service) *Router {
	var routes []CachedRoute
	for _, service := range services {
		for composite, route := range service.GetRoutes() {
			parts := strings.SplitN(composite, ":", 2)
			routes = append(routes, CachedRoute{
				Method: parts[0],
				Path:   parts[1],
				Route:  route,
				Matcher: &CachedMatcher{
					Mutex: &sync.Mutex{},
				},
			})
		}
	}
	return &Router{
		Routes:  routes,
		Filters: filters.DefaultFilters(),
		Logger:  zap.NewNop(),
	}
}

func (r *Router) WithLogger(log *zap.Logger) *Router {
	r.Logger = logger.OrNop(log)
	return r
}

type errorBody struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

func translateError(err error) events.APIGatewayV2HTTPResponse {
	statusCode := exceptions.Classify(err).StatusCode()
	var re exceptions.RequestError
	if errors.As(err, &re) {
		statusCode = re.ToServiceError().StatusCode
	}
	var se *exceptions.ServiceError
	if errors.As(err, &se) {
		statusCode = se.StatusCode
	}
	message := exceptions.Message(err)
	var ie *exceptions.InvalidInputError
	if errors.As(err, &ie) {
		message = ie.Error()
	}
	body, _ := json.Marshal(errorBody{
		Message: message,
		Kind:    exceptions.Classify(err).String(),
	})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type":   "application/json",
			"Content-Length": strconv.Itoa(len(body)),
		},
	}
}

func _withHeaders(resp events.APIGatewayV2HTTPResponse, headers map[string]string) events.APIGatewayV2HTTPResponse {
	if len(headers) == 0 {
		return resp
	}
	merged := make(map[string]string, len(resp.Headers)+len(headers))
	for name, value := range headers {
		merged[name] = value
	}
	for name, value := range resp.Headers {
		merged[name] = value
	}
	resp.Headers = merged
	return resp
}

func (r *Router) Invoke(event events.APIGatewayV2HTTPRequest, ctx context.Context) events.APIGatewayV2HTTPResponse {
	filterContext := filters.DefaultFilterContext(event, ctx)
	for _, filter := range r.Filters {
		updatedContext, broken := filter.Filter(filterContext)
		if broken {
			return *updatedContext.Response
		}
		filterContext = updatedContext
	}
	headers := filterContext.Response.Headers
	for _, route := range r.Routes {
		if params, ok := route.MatchEvent(*filterContext.Request); ok {
			resp, err := route.Route(event, context.WithValue(filterContext.Context, PARAMS_KEY, params))
			if err != nil {
				r.Logger.Warn("request failed",
					zap.String("requestId", filters.RequestId(filterContext.Context)),
					zap.String("method", route.Method),
					zap.String("path", event.RawPath),
					zap.Error(err))
				return _withHeaders(translateError(err), headers)
			}
			return _withHeaders(resp, headers)
		}
	}
	return _withHeaders(translateError(exceptions.NotFound("route", event.RawPath)), headers)
}
