package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
	"philcali.me/recipesync/internal/app"
	"philcali.me/recipesync/internal/config"
	"philcali.me/recipesync/internal/logger"
	"philcali.me/recipesync/internal/routes"
)

type App struct {
	Router *routes.Router
}

func NewApp(ctx context.Context) (*App, func(), error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	services, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize services", zap.Error(err))
		return nil, nil, err
	}
	cleanup := func() {
		services.Close()
		log.Sync()
	}
	return &App{Router: services.Router()}, cleanup, nil
}

func (a *App) HandleRequest(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return a.Router.Invoke(request, ctx), nil
}

func main() {
	handler, cleanup, err := NewApp(context.Background())
	if err != nil {
		panic(err)
	}
	defer cleanup()
	lambda.Start(handler.HandleRequest)
}
