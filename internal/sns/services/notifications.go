package services

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"philcali.me/recipesync/internal/config"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/notifications"
)

type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	Subscribe(ctx context.Context, params *sns.SubscribeInput, optFns ...func(*sns.Options)) (*sns.SubscribeOutput, error)
	Unsubscribe(ctx context.Context, params *sns.UnsubscribeInput, optFns ...func(*sns.Options)) (*sns.UnsubscribeOutput, error)
}

type NotificationSNSService struct {
	Sns      SNSAPI
	TopicArn string
}

func NewNotificationService(client SNSAPI, topicArn string) notifications.NotificationService {
	return &NotificationSNSService{
		Sns:      client,
		TopicArn: topicArn,
	}
}

func (n *NotificationSNSService) Subscribe(ctx context.Context, input notifications.SubscribeInput) (*notifications.SubscribeOutput, error) {
	output, err := n.Sns.Subscribe(ctx, &sns.SubscribeInput{
		Endpoint:              input.Endpoint,
		Protocol:              input.Protocol,
		TopicArn:              aws.String(n.TopicArn),
		ReturnSubscriptionArn: true,
	})

	if err != nil {
		return nil, exceptions.Wrap("notifications.Subscribe", err)
	}

	return &notifications.SubscribeOutput{
		SubscriberId: aws.ToString(output.SubscriptionArn),
	}, nil
}

func (n *NotificationSNSService) Unsubscribe(ctx context.Context, subscriberId string) error {
	_, err := n.Sns.Unsubscribe(ctx, &sns.UnsubscribeInput{
		SubscriptionArn: aws.String(subscriberId),
	})

	return exceptions.Wrap("notifications.Unsubscribe", err)
}

// Publish sends the notice as JSON. Collection and action are copied into
// message attributes so subscribers can filter on them.
func (n *NotificationSNSService) Publish(ctx context.Context, notice notifications.ChangeNotice) error {
	body, err := json.Marshal(notice)
	if err != nil {
		return err
	}
	_, err = n.Sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.TopicArn),
		Message:  aws.String(string(body)),
		Subject:  aws.String(notice.Message),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"collection": {
				DataType:    aws.String("String"),
				StringValue: aws.String(notice.Collection),
			},
			"action": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(notice.Action)),
			},
		},
	})
	return exceptions.Wrap("notifications.Publish", err)
}

func NewFromConfig(awsCfg aws.Config, cfg config.Notification) notifications.NotificationService {
	return NewNotificationService(sns.NewFromConfig(awsCfg), cfg.TopicArn)
}
