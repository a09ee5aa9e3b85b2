package notifications

import (
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/services"
	"philcali.me/recipesync/internal/store"
	"philcali.me/recipesync/internal/token"
)

const RESOURCE = "subscription"

var PROTOCOLS = map[string]bool{
	"email":      true,
	"email-json": true,
	"http":       true,
	"https":      true,
	"sms":        true,
}

func Validate(input data.SubscriptionInputDTO) error {
	if input.Endpoint == nil || strings.TrimSpace(*input.Endpoint) == "" {
		return exceptions.Required("endpoint")
	}
	if input.Protocol == nil || !PROTOCOLS[*input.Protocol] {
		return exceptions.InvalidInput("protocol must be one of email, email-json, http, https or sms")
	}
	return nil
}

// NewSubscriberService stores the topic subscriptions created through
// NotificationService so they can be listed and removed later.
func NewSubscriberService(documents store.DocumentStore, marshaler token.TokenMarshaler) data.SubscriptionDataService {
	return &services.RepositoryService[data.SubscriptionDTO, data.SubscriptionInputDTO]{
		Store:          documents,
		TokenMarshaler: marshaler,
		Collection:     data.SUBSCRIPTIONS_COLLECTION,
		Resource:       RESOURCE,
		Clock:          services.NewClock(),
		Validate:       Validate,
		OnCreate: func(input data.SubscriptionInputDTO, now time.Time, collection string, id string) data.SubscriptionDTO {
			return data.SubscriptionDTO{
				PK:            collection,
				SK:            id,
				Endpoint:      strings.TrimSpace(*input.Endpoint),
				Protocol:      *input.Protocol,
				SubscriberArn: aws.ToString(input.SubscriberArn),
				CreateTime:    now,
				UpdateTime:    now,
			}
		},
		OnUpdate: func(input data.SubscriptionInputDTO, update services.UpdateFields) error {
			if input.SubscriberArn != nil {
				update.Set("subscriberArn", *input.SubscriberArn)
			}
			return nil
		},
	}
}
