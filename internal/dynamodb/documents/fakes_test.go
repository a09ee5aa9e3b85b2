package documents

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams"
	streamTypes "github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"
	"golang.org/x/exp/maps"
	"philcali.me/recipesync/internal/store"
)

const TEST_STREAM_ARN = "arn:aws:dynamodb:us-east-1:012345678912:table/RecipeData/stream/2024-05-06T00:00:00.000"

type fakeDynamoDB struct {
	mu          sync.Mutex
	describeErr error
	streamArn   *string
	err         error
	calls       int
	items       map[string]store.Item
	lastPut     *dynamodb.PutItemInput
	lastGet     *dynamodb.GetItemInput
	lastQuery   *dynamodb.QueryInput
	lastUpdate  *dynamodb.UpdateItemInput
	queryOutput *dynamodb.QueryOutput
}

func newFakeDynamoDB() *fakeDynamoDB {
	return &fakeDynamoDB{
		streamArn: aws.String(TEST_STREAM_ARN),
		items:     make(map[string]store.Item),
	}
}

func _itemKey(key store.Item) string {
	return fmt.Sprintf("%s|%s", store.KeyValue(key, store.PARTITION_KEY), store.KeyValue(key, store.SORT_KEY))
}

func (f *fakeDynamoDB) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return &dynamodb.DescribeTableOutput{
		Table: &types.TableDescription{
			TableName:       params.TableName,
			LatestStreamArn: f.streamArn,
		},
	}, nil
}

func (f *fakeDynamoDB) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastGet = params
	if f.err != nil {
		return nil, f.err
	}
	item, ok := f.items[_itemKey(params.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: maps.Clone(item)}, nil
}

func (f *fakeDynamoDB) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastPut = params
	if f.err != nil {
		return nil, f.err
	}
	key := _itemKey(params.Item)
	if _, exists := f.items[key]; exists {
		return nil, fmt.Errorf("operation error DynamoDB: PutItem, %w", &types.ConditionalCheckFailedException{
			Message: aws.String("The conditional request failed"),
		})
	}
	f.items[key] = maps.Clone(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoDB) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastUpdate = params
	if f.err != nil {
		return nil, f.err
	}
	key := _itemKey(params.Key)
	item, exists := f.items[key]
	if !exists {
		return nil, fmt.Errorf("operation error DynamoDB: UpdateItem, %w", &types.ConditionalCheckFailedException{
			Message: aws.String("The conditional request failed"),
		})
	}
	merged := maps.Clone(item)
	for name, field := range params.ExpressionAttributeNames {
		if !strings.HasPrefix(name, "#f") {
			continue
		}
		merged[field] = params.ExpressionAttributeValues[":v"+strings.TrimPrefix(name, "#f")]
	}
	f.items[key] = merged
	return &dynamodb.UpdateItemOutput{Attributes: maps.Clone(merged)}, nil
}

func (f *fakeDynamoDB) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	delete(f.items, _itemKey(params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamoDB) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastQuery = params
	if f.err != nil {
		return nil, f.err
	}
	if f.queryOutput != nil {
		return f.queryOutput, nil
	}
	return &dynamodb.QueryOutput{}, nil
}

type fakeStreams struct {
	mu            sync.Mutex
	shards        []streamTypes.Shard
	records       chan streamTypes.Record
	getRecordsErr error
	describeErr   error
	iterators     []streamTypes.ShardIteratorType
}

func newFakeStreams(shardIds ...string) *fakeStreams {
	shards := make([]streamTypes.Shard, 0, len(shardIds))
	for _, shardId := range shardIds {
		shards = append(shards, streamTypes.Shard{
			ShardId:             aws.String(shardId),
			SequenceNumberRange: &streamTypes.SequenceNumberRange{StartingSequenceNumber: aws.String("1")},
		})
	}
	return &fakeStreams{
		shards:  shards,
		records: make(chan streamTypes.Record, 16),
	}
}

func (f *fakeStreams) DescribeStream(ctx context.Context, params *dynamodbstreams.DescribeStreamInput, optFns ...func(*dynamodbstreams.Options)) (*dynamodbstreams.DescribeStreamOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return &dynamodbstreams.DescribeStreamOutput{
		StreamDescription: &streamTypes.StreamDescription{
			StreamArn: params.StreamArn,
			Shards:    f.shards,
		},
	}, nil
}

func (f *fakeStreams) GetShardIterator(ctx context.Context, params *dynamodbstreams.GetShardIteratorInput, optFns ...func(*dynamodbstreams.Options)) (*dynamodbstreams.GetShardIteratorOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.iterators = append(f.iterators, params.ShardIteratorType)
	return &dynamodbstreams.GetShardIteratorOutput{
		ShardIterator: aws.String(aws.ToString(params.ShardId) + "/iterator"),
	}, nil
}

func (f *fakeStreams) GetRecords(ctx context.Context, params *dynamodbstreams.GetRecordsInput, optFns ...func(*dynamodbstreams.Options)) (*dynamodbstreams.GetRecordsOutput, error) {
	f.mu.Lock()
	err := f.getRecordsErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	var records []streamTypes.Record
	for {
		select {
		case record := <-f.records:
			records = append(records, record)
			continue
		default:
		}
		break
	}
	return &dynamodbstreams.GetRecordsOutput{
		Records:           records,
		NextShardIterator: params.ShardIterator,
	}, nil
}

func (f *fakeStreams) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getRecordsErr = err
}

func streamRecord(collection string, id string, eventName streamTypes.OperationType) streamTypes.Record {
	return streamTypes.Record{
		EventName: eventName,
		Dynamodb: &streamTypes.StreamRecord{
			Keys: map[string]streamTypes.AttributeValue{
				store.PARTITION_KEY: &streamTypes.AttributeValueMemberS{Value: collection},
				store.SORT_KEY:      &streamTypes.AttributeValueMemberS{Value: id},
			},
		},
	}
}
