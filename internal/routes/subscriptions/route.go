package subscriptions

import (
	"context"
	"errors"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/notifications"
	"philcali.me/recipesync/internal/routes"
	"philcali.me/recipesync/internal/routes/util"
)

type SubscriptionService struct {
	data          data.SubscriptionDataService
	notifications notifications.NotificationService
}

func NewRoute(data data.SubscriptionDataService, notifications notifications.NotificationService) routes.Service {
	return &SubscriptionService{
		data:          data,
		notifications: notifications,
	}
}

func (s *SubscriptionService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/subscriptions":                  s.ListSubscriptions,
		"GET:/subscriptions/:subscriberId":    s.GetSubscription,
		"POST:/subscriptions":                 s.CreateSubscription,
		"DELETE:/subscriptions/:subscriberId": s.DeleteSubscription,
	}
}

func (s *SubscriptionService) ListSubscriptions(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeList[data.SubscriptionDTO, data.SubscriptionInputDTO](s.data, NewSubscription, event, ctx)
}

func (s *SubscriptionService) GetSubscription(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	item, err := s.data.Get(ctx, util.RequestParam(ctx, "subscriberId"))
	return util.SerializeResponseOK(NewSubscription, item, err)
}

func (s *SubscriptionService) CreateSubscription(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	body, err := util.ParseBody[SubscriptionInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	input := body.Normalized()
	if err := notifications.Validate(input.ToData("")); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	subscription, err := s.notifications.Subscribe(ctx, input.ToSubscribe())
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	created, err := s.data.Create(ctx, input.ToData(subscription.SubscriberId))
	return util.SerializeResponseOK(NewSubscription, created, err)
}

// DeleteSubscription is idempotent: an unknown subscriber is a no-op.
func (s *SubscriptionService) DeleteSubscription(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	subscriber, err := s.data.Get(ctx, util.RequestParam(ctx, "subscriberId"))
	if err != nil {
		var nfe *exceptions.NotFoundError
		if errors.As(err, &nfe) {
			return util.SerializeResponseNoContent(nil)
		}
		return events.APIGatewayV2HTTPResponse{}, err
	}
	if err := s.notifications.Unsubscribe(ctx, subscriber.SubscriberArn); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return util.SerializeResponseNoContent(s.data.Delete(ctx, subscriber.SK))
}
