package data

import "time"

const SUBSCRIPTIONS_COLLECTION = "subscriptions"

type SubscriptionDTO struct {
	PK            string    `dynamodbav:"PK"`
	SK            string    `dynamodbav:"SK"`
	Endpoint      string    `dynamodbav:"endpoint"`
	Protocol      string    `dynamodbav:"protocol"`
	SubscriberArn string    `dynamodbav:"subscriberArn"`
	CreateTime    time.Time `dynamodbav:"createTime"`
	UpdateTime    time.Time `dynamodbav:"updateTime"`
}

type SubscriptionInputDTO struct {
	Endpoint      *string `dynamodbav:"endpoint,omitempty"`
	Protocol      *string `dynamodbav:"protocol,omitempty"`
	SubscriberArn *string `dynamodbav:"subscriberArn,omitempty"`
}

type SubscriptionDataService interface {
	Repository[SubscriptionDTO, SubscriptionInputDTO]
}
