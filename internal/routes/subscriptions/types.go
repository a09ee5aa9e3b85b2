package subscriptions

import (
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/notifications"
)

type Subscription struct {
	Id         string    `json:"subscriberId"`
	Protocol   string    `json:"protocol"`
	Endpoint   string    `json:"endpoint"`
	CreateTime time.Time `json:"createTime"`
	UpdateTime time.Time `json:"updateTime"`
}

type SubscriptionInput struct {
	Endpoint *string `json:"endpoint"`
	Protocol *string `json:"protocol"`
}

// Normalized trims the endpoint and lower cases the protocol so "EMAIL" and
// " email" subscribe the same way.
func (s SubscriptionInput) Normalized() SubscriptionInput {
	var normal SubscriptionInput
	if s.Endpoint != nil {
		normal.Endpoint = aws.String(strings.TrimSpace(*s.Endpoint))
	}
	if s.Protocol != nil {
		normal.Protocol = aws.String(strings.ToLower(strings.TrimSpace(*s.Protocol)))
	}
	return normal
}

func (s SubscriptionInput) ToSubscribe() notifications.SubscribeInput {
	return notifications.SubscribeInput{
		Endpoint: s.Endpoint,
		Protocol: s.Protocol,
	}
}

func (s SubscriptionInput) ToData(subscriberArn string) data.SubscriptionInputDTO {
	dto := data.SubscriptionInputDTO{
		Endpoint: s.Endpoint,
		Protocol: s.Protocol,
	}
	if subscriberArn != "" {
		dto.SubscriberArn = &subscriberArn
	}
	return dto
}

func NewSubscription(entry data.SubscriptionDTO) Subscription {
	return Subscription{
		Id:         entry.SK,
		Protocol:   entry.Protocol,
		Endpoint:   entry.Endpoint,
		CreateTime: entry.CreateTime,
		UpdateTime: entry.UpdateTime,
	}
}
