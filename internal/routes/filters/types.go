package filters

import (
	"context"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

type requestIdKey struct{}

const (
	REQUEST_ID_HEADER = "x-request-id"
	ANY_ORIGIN        = "*"
)

// FilterContext carries the request through the filter chain. Headers set on
// Response are copied onto whatever response the matched route returns.
type FilterContext struct {
	Request  *events.APIGatewayV2HTTPRequest
	Response *events.APIGatewayV2HTTPResponse
	Context  context.Context
}

func (fc *FilterContext) SetHeader(name, value string) {
	if fc.Response.Headers == nil {
		fc.Response.Headers = make(map[string]string, 4)
	}
	fc.Response.Headers[name] = value
}

// A filter returning true has answered the request and stops the chain.
type RequestFilter interface {
	Filter(ctx *FilterContext) (*FilterContext, bool)
}

type CorsFilter struct {
	Methods []string
	Origins []string
	Headers []string
}

func (cf *CorsFilter) _allowedOrigin(origin string) (string, bool) {
	if slices.Contains(cf.Origins, ANY_ORIGIN) {
		return ANY_ORIGIN, true
	}
	if origin != "" && slices.Contains(cf.Origins, origin) {
		return origin, true
	}
	return "", false
}

func _header(request *events.APIGatewayV2HTTPRequest, name string) string {
	for key, value := range request.Headers {
		if strings.EqualFold(key, name) {
			return value
		}
	}
	return ""
}

func (cf *CorsFilter) Filter(ctx *FilterContext) (*FilterContext, bool) {
	origin, allowed := cf._allowedOrigin(_header(ctx.Request, "origin"))
	if allowed {
		ctx.SetHeader("access-control-allow-origin", origin)
	}
	if ctx.Request.RequestContext.HTTP.Method != http.MethodOptions {
		return ctx, false
	}
	ctx.SetHeader("content-length", "0")
	if allowed {
		ctx.SetHeader("access-control-allow-headers", strings.Join(cf.Headers, ", "))
		ctx.SetHeader("access-control-allow-methods", strings.Join(cf.Methods, ", "))
	}
	return ctx, true
}

// RequestIdFilter tags the request with the gateway request id, or a fresh
// one for direct invocations, and echoes it back in the response.
type RequestIdFilter struct{}

func (RequestIdFilter) Filter(ctx *FilterContext) (*FilterContext, bool) {
	requestId := ctx.Request.RequestContext.RequestID
	if requestId == "" {
		requestId = uuid.NewString()
	}
	ctx.Context = context.WithValue(ctx.Context, requestIdKey{}, requestId)
	ctx.SetHeader(REQUEST_ID_HEADER, requestId)
	return ctx, false
}

func RequestId(ctx context.Context) string {
	requestId, _ := ctx.Value(requestIdKey{}).(string)
	return requestId
}

func DefaultFilterContext(event events.APIGatewayV2HTTPRequest, ctx context.Context) *FilterContext {
	return &FilterContext{
		Request: &event,
		Response: &events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusOK,
		},
		Context: ctx,
	}
}

func DefaultCorsFilter() *CorsFilter {
	return &CorsFilter{
		Methods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
		Headers: []string{"Content-Type", "Content-Length"},
		Origins: []string{ANY_ORIGIN},
	}
}

func DefaultFilters() []RequestFilter {
	return []RequestFilter{RequestIdFilter{}, DefaultCorsFilter()}
}
