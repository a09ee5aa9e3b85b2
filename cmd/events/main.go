package main

import (
	"context"

	lambdaEvents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"
	"philcali.me/recipesync/internal/config"
	"philcali.me/recipesync/internal/events"
	"philcali.me/recipesync/internal/logger"
	"philcali.me/recipesync/internal/sns/services"
)

type handler struct {
	handlers []events.EventFilter
	logger   *zap.Logger
}

func (h *handler) HandleRequest(ctx context.Context, event lambdaEvents.DynamoDBEvent) error {
	h.logger.Debug("received stream batch", zap.Int("records", len(event.Records)))
	return events.Dispatch(ctx, h.handlers, event, h.logger)
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(), awsConfig.WithRegion(cfg.Store.Region))
	if err != nil {
		log.Fatal("failed to load AWS config", zap.Error(err))
	}
	if cfg.Notification.TopicArn == "" {
		log.Fatal("TOPIC_ARN is required")
	}

	h := &handler{
		handlers: []events.EventFilter{
			events.DefaultPublishHandler(services.NewFromConfig(awsCfg, cfg.Notification)),
		},
		logger: log,
	}
	lambda.Start(h.HandleRequest)
}
