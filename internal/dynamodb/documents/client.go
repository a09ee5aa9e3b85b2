package documents

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams"
	"philcali.me/recipesync/internal/config"
)

const LOCAL_CREDENTIAL = "fake"

// LoadAWSConfig resolves the AWS configuration. A configured endpoint points
// every client at a local DynamoDB with static credentials.
func LoadAWSConfig(ctx context.Context, cfg config.Store) (aws.Config, error) {
	options := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(cfg.Region),
	}
	if cfg.Endpoint != "" {
		options = append(options,
			awsConfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
				func(service, region string, opts ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{URL: cfg.Endpoint, SigningRegion: region}, nil
				})),
			awsConfig.WithCredentialsProvider(credentials.StaticCredentialsProvider{
				Value: aws.Credentials{
					AccessKeyID:     LOCAL_CREDENTIAL,
					SecretAccessKey: LOCAL_CREDENTIAL,
					SessionToken:    LOCAL_CREDENTIAL,
				}}),
		)
	}
	return awsConfig.LoadDefaultConfig(ctx, options...)
}

func NewFromConfig(awsCfg aws.Config, cfg config.Store, opts ...StoreOption) *DynamoDBStore {
	return NewDynamoDBStore(
		cfg.TableName,
		dynamodb.NewFromConfig(awsCfg),
		dynamodbstreams.NewFromConfig(awsCfg),
		append([]StoreOption{WithPollInterval(cfg.PollInterval)}, opts...)...,
	)
}
