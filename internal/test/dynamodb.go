//go:build integration

package test

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"philcali.me/recipesync/internal/config"
	"philcali.me/recipesync/internal/dynamodb/documents"
	"philcali.me/recipesync/internal/store"
)

const (
	LOCAL_DDB_IMAGE = "amazon/dynamodb-local:2.5.2"
	LOCAL_DDB_PORT  = "8000/tcp"
	TABLE_NAME      = "RecipeData"
)

type LocalDynamoServer struct {
	Container tc.Container
	Endpoint  string
}

func StartLocalServer(ctx context.Context) (*LocalDynamoServer, error) {
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        LOCAL_DDB_IMAGE,
			ExposedPorts: []string{LOCAL_DDB_PORT},
			Cmd:          []string{"-jar", "DynamoDBLocal.jar", "-inMemory", "-sharedDb"},
			WaitingFor:   wait.ForListeningPort(LOCAL_DDB_PORT).WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return nil, err
	}
	host, err := container.Host(ctx)
	if err != nil {
		return nil, err
	}
	port, err := container.MappedPort(ctx, LOCAL_DDB_PORT)
	if err != nil {
		return nil, err
	}
	return &LocalDynamoServer{
		Container: container,
		Endpoint:  fmt.Sprintf("http://%s:%s", host, port.Port()),
	}, nil
}

func (l *LocalDynamoServer) Terminate(ctx context.Context) error {
	return l.Container.Terminate(ctx)
}

func (l *LocalDynamoServer) StoreConfig(tableName string) config.Store {
	return config.Store{
		TableName:    tableName,
		Region:       "us-east-1",
		Endpoint:     l.Endpoint,
		PollInterval: 50 * time.Millisecond,
	}
}

// CreateTable creates the single document table with a keys only stream.
func (l *LocalDynamoServer) CreateTable(ctx context.Context, tableName string) error {
	awsCfg, err := documents.LoadAWSConfig(ctx, l.StoreConfig(tableName))
	if err != nil {
		return err
	}
	client := dynamodb.NewFromConfig(awsCfg)
	output, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(tableName),
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String(store.PARTITION_KEY),
				KeyType:       types.KeyTypeHash,
			},
			{
				AttributeName: aws.String(store.SORT_KEY),
				KeyType:       types.KeyTypeRange,
			},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String(store.PARTITION_KEY),
				AttributeType: types.ScalarAttributeTypeS,
			},
			{
				AttributeName: aws.String(store.SORT_KEY),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		BillingMode: types.BillingModePayPerRequest,
		StreamSpecification: &types.StreamSpecification{
			StreamEnabled:  aws.Bool(true),
			StreamViewType: types.StreamViewTypeKeysOnly,
		},
	})
	if err != nil {
		return err
	}
	waiter := dynamodb.NewTableExistsWaiter(client)
	return waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: output.TableDescription.TableName,
	}, 30*time.Second)
}
