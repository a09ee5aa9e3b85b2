// Package app wires configuration into a ready set of services shared by
// the HTTP handler and the command line client.
package app

import (
	"context"
	"time"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"
	"philcali.me/recipesync/internal/config"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/dynamodb/documents"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/logger"
	"philcali.me/recipesync/internal/mealdb"
	"philcali.me/recipesync/internal/memory"
	"philcali.me/recipesync/internal/notifications"
	"philcali.me/recipesync/internal/provider"
	"philcali.me/recipesync/internal/recipes"
	"philcali.me/recipesync/internal/routes"
	"philcali.me/recipesync/internal/routes/external"
	recipeRoutes "philcali.me/recipesync/internal/routes/recipes"
	shoppingRoutes "philcali.me/recipesync/internal/routes/shopping"
	subscriptionRoutes "philcali.me/recipesync/internal/routes/subscriptions"
	"philcali.me/recipesync/internal/shopping"
	snsServices "philcali.me/recipesync/internal/sns/services"
	"philcali.me/recipesync/internal/store"
	"philcali.me/recipesync/internal/subscriptions"
	"philcali.me/recipesync/internal/token"
)

type App struct {
	Config        *config.Config
	Logger        *zap.Logger
	Store         store.DocumentStore
	Recipes       data.RecipeDataService
	Lists         *shopping.ShoppingListService
	Items         *shopping.ItemService
	Subscribers   data.SubscriptionDataService
	Notifications notifications.NotificationService
	Provider      provider.RecipeProvider
}

// NewStore selects the backend named by the configuration without opening it.
func NewStore(ctx context.Context, cfg config.Store, log *zap.Logger) (store.DocumentStore, error) {
	if cfg.Memory {
		log.Info("using in-memory document store")
		return memory.New(), nil
	}
	awsCfg, err := documents.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("using DynamoDB document store",
		zap.String("table", cfg.TableName),
		zap.String("region", cfg.Region),
		zap.String("endpoint", cfg.Endpoint))
	return documents.NewFromConfig(awsCfg, cfg, documents.WithLogger(log)), nil
}

// New opens the document store and builds every service over it. A failed
// open is returned classified; the store stays unusable afterwards.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	log = logger.OrNop(log)
	documentStore, err := NewStore(ctx, cfg.Store, log)
	if err != nil {
		return nil, exceptions.Wrap("app.NewStore", err)
	}
	if err := documentStore.Open(ctx); err != nil {
		return nil, exceptions.Wrap("app.Open", err)
	}
	app := NewWithStore(cfg, documentStore, log)
	if cfg.Notification.TopicArn != "" {
		awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(cfg.Store.Region))
		if err != nil {
			documentStore.Close()
			return nil, exceptions.Wrap("app.Notifications", err)
		}
		app.Notifications = snsServices.NewFromConfig(awsCfg, cfg.Notification)
	}
	return app, nil
}

// NewWithStore builds the services over an already opened store.
func NewWithStore(cfg *config.Config, documentStore store.DocumentStore, log *zap.Logger) *App {
	marshaler := token.NewGCM(cfg.Store.PageTokenSecret)
	lists := shopping.NewShoppingListService(documentStore, marshaler)
	return &App{
		Config:      cfg,
		Logger:      logger.OrNop(log),
		Store:       documentStore,
		Recipes:     recipes.NewRecipeService(documentStore, marshaler),
		Lists:       lists,
		Items:       shopping.NewItemService(lists),
		Subscribers: notifications.NewSubscriberService(documentStore, marshaler),
		Provider:    mealdb.NewMealClient(cfg.MealDB),
	}
}

func (a *App) _subscriptionOptions() []subscriptions.Option {
	return []subscriptions.Option{
		subscriptions.WithInitialTimeout(a.Config.Subscription.InitialLoadTimeout),
		subscriptions.WithLogger(a.Logger),
	}
}

// RecipeFeed is the live query over every recipe, newest first.
func (a *App) RecipeFeed() *subscriptions.Multiplexer[data.RecipeDTO] {
	return subscriptions.NewMultiplexer(a.Store, data.RECIPES_COLLECTION, a.Recipes.All, a._subscriptionOptions()...)
}

// ListFeed is the live query over every shopping list, newest first.
func (a *App) ListFeed() *subscriptions.Multiplexer[data.ShoppingListDTO] {
	return subscriptions.NewMultiplexer(a.Store, data.SHOPPING_LISTS_COLLECTION, a.Lists.All, a._subscriptionOptions()...)
}

// RetryOptions turns the configured policy into options for exceptions.Retry.
func (a *App) RetryOptions() []exceptions.RetryOption {
	return []exceptions.RetryOption{
		exceptions.WithMaxAttempts(a.Config.Retry.Attempts),
		exceptions.WithBaseDelay(a.Config.Retry.BaseDelay),
		exceptions.WithNotify(func(err error, wait time.Duration) {
			a.Logger.Warn("retrying after network failure", zap.Duration("wait", wait), zap.Error(err))
		}),
	}
}

func (a *App) Router() *routes.Router {
	services := []routes.Service{
		recipeRoutes.NewRoute(a.Recipes),
		shoppingRoutes.NewRoute(a.Lists, a.Recipes),
		external.NewExternalService(a.Provider, a.Recipes),
	}
	if a.Notifications != nil {
		services = append(services, subscriptionRoutes.NewRoute(a.Subscribers, a.Notifications))
	}
	return routes.NewRouter(services...).WithLogger(a.Logger)
}

func (a *App) Close() error {
	return a.Store.Close()
}
