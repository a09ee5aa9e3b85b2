package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains the parameters shared by every binary.
type Config struct {
	LogLevel     string       `env:"LOG_LEVEL" envDefault:"info"`
	Store        Store        `envPrefix:""`
	Subscription Subscription `envPrefix:""`
	Retry        Retry        `envPrefix:"RETRY_"`
	MealDB       MealDB       `envPrefix:"MEALDB_"`
	Notification Notification `envPrefix:""`
}

// Store contains the document store connection parameters. Memory selects
// the in-process store and ignores the DynamoDB settings.
type Store struct {
	TableName       string        `env:"TABLE_NAME" envDefault:"RecipeData"`
	Region          string        `env:"AWS_REGION" envDefault:"us-east-1"`
	Endpoint        string        `env:"DYNAMODB_ENDPOINT"`
	Memory          bool          `env:"STORE_MEMORY" envDefault:"false"`
	PageTokenSecret string        `env:"PAGE_TOKEN_SECRET" envDefault:"recipesync"`
	PollInterval    time.Duration `env:"STREAM_POLL_INTERVAL" envDefault:"1s"`
}

// Subscription contains live query parameters.
type Subscription struct {
	InitialLoadTimeout time.Duration `env:"INITIAL_LOAD_TIMEOUT" envDefault:"10s"`
}

// Retry contains the opt-in retry policy for network failures.
type Retry struct {
	Attempts  int           `env:"ATTEMPTS" envDefault:"3"`
	BaseDelay time.Duration `env:"BASE_DELAY" envDefault:"1s"`
}

// MealDB contains the external recipe provider parameters.
type MealDB struct {
	BaseURL string `env:"BASE_URL" envDefault:"https://www.themealdb.com/api/json"`
	Version string `env:"VERSION" envDefault:"v1"`
	Token   string `env:"TOKEN" envDefault:"1"`
}

// Notification contains change notice fan out parameters.
type Notification struct {
	TopicArn string `env:"TOPIC_ARN"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
