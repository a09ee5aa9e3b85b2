package notifications

import (
	"context"

	"philcali.me/recipesync/internal/store"
)

type SubscribeInput struct {
	Endpoint *string
	Protocol *string
}

type SubscribeOutput struct {
	SubscriberId string
}

// ChangeNotice announces a document change to subscribers outside the
// process.
type ChangeNotice struct {
	Collection string       `json:"collection"`
	Id         string       `json:"id"`
	Action     store.Action `json:"action"`
	Message    string       `json:"message"`
}

type NotificationService interface {
	Subscribe(ctx context.Context, input SubscribeInput) (*SubscribeOutput, error)
	Unsubscribe(ctx context.Context, subscriberId string) error
	Publish(ctx context.Context, notice ChangeNotice) error
}
