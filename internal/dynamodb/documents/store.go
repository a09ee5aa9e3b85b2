// Package documents is the DynamoDB DocumentStore. Every collection lives in
// one table partition keyed by collection name, with the document id as the
// sort key. Live queries are fed by the table's stream.
package documents

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/logger"
	"philcali.me/recipesync/internal/store"
)

const DEFAULT_POLL_INTERVAL = time.Second

var ErrStreamDisabled = errors.New("table has no stream enabled")

type DynamoDBAPI interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

type StreamsAPI interface {
	DescribeStream(ctx context.Context, params *dynamodbstreams.DescribeStreamInput, optFns ...func(*dynamodbstreams.Options)) (*dynamodbstreams.DescribeStreamOutput, error)
	GetShardIterator(ctx context.Context, params *dynamodbstreams.GetShardIteratorInput, optFns ...func(*dynamodbstreams.Options)) (*dynamodbstreams.GetShardIteratorOutput, error)
	GetRecords(ctx context.Context, params *dynamodbstreams.GetRecordsInput, optFns ...func(*dynamodbstreams.Options)) (*dynamodbstreams.GetRecordsOutput, error)
}

type StoreOption func(*DynamoDBStore)

func WithPollInterval(interval time.Duration) StoreOption {
	return func(s *DynamoDBStore) {
		if interval > 0 {
			s.PollInterval = interval
		}
	}
}

func WithLogger(l *zap.Logger) StoreOption {
	return func(s *DynamoDBStore) {
		s.Logger = logger.OrNop(l)
	}
}

type poll struct {
	cancel context.CancelFunc
	ready  chan struct{}
	done   chan struct{}
}

type DynamoDBStore struct {
	DynamoDB     DynamoDBAPI
	Streams      StreamsAPI
	TableName    string
	PollInterval time.Duration
	Logger       *zap.Logger
	lifecycle    store.Lifecycle
	hub          *store.Hub
	streamArn    string
	mu           sync.Mutex
	poll         *poll
}

func NewDynamoDBStore(tableName string, client DynamoDBAPI, streams StreamsAPI, opts ...StoreOption) *DynamoDBStore {
	s := &DynamoDBStore{
		DynamoDB:     client,
		Streams:      streams,
		TableName:    tableName,
		PollInterval: DEFAULT_POLL_INTERVAL,
		Logger:       zap.NewNop(),
		hub:          store.NewHub(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub.OnIdle = s.stopPolling
	return s
}

// Open verifies the table is reachable. A failed open is permanent.
func (s *DynamoDBStore) Open(ctx context.Context) error {
	return s.lifecycle.Open(func() error {
		output, err := s.DynamoDB.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(s.TableName),
		})
		if err != nil {
			s.Logger.Error("failed to open document store",
				zap.String("table", s.TableName),
				zap.Error(err))
			return err
		}
		if output.Table != nil {
			s.streamArn = aws.ToString(output.Table.LatestStreamArn)
		}
		s.Logger.Info("document store opened",
			zap.String("table", s.TableName),
			zap.Bool("stream", s.streamArn != ""))
		return nil
	})
}

func (s *DynamoDBStore) Close() error {
	return s.lifecycle.Close(func() error {
		s.hub.Close()
		s.stopPolling()
		return nil
	})
}

func (s *DynamoDBStore) Put(ctx context.Context, collection string, id string, item store.Item) error {
	if err := s.lifecycle.Ready(); err != nil {
		return err
	}
	stored := maps.Clone(item)
	maps.Copy(stored, store.Key(collection, id))
	condition := expression.Name(store.PARTITION_KEY).AttributeNotExists().And(expression.Name(store.SORT_KEY).AttributeNotExists())
	expr, err := expression.NewBuilder().WithCondition(condition).Build()
	if err != nil {
		return err
	}
	_, err = s.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.TableName),
		Item:                     stored,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return exceptions.Conflict(collection, id)
	}
	return err
}

func (s *DynamoDBStore) Get(ctx context.Context, collection string, id string) (store.Item, error) {
	if err := s.lifecycle.Ready(); err != nil {
		return nil, err
	}
	output, err := s.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.TableName),
		Key:            store.Key(collection, id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if output.Item == nil {
		return nil, exceptions.NotFound(collection, id)
	}
	return output.Item, nil
}

func (s *DynamoDBStore) Query(ctx context.Context, collection string, input store.QueryInput) (store.Page, error) {
	if err := s.lifecycle.Ready(); err != nil {
		return store.Page{}, err
	}
	keyEx := expression.Key(store.PARTITION_KEY).Equal(expression.Value(collection))
	expr, err := expression.NewBuilder().WithKeyCondition(keyEx).Build()
	if err != nil {
		return store.Page{}, err
	}
	query := &dynamodb.QueryInput{
		TableName:                 aws.String(s.TableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ExclusiveStartKey:         input.StartKey,
		// newest first by UUIDv7 sort key, not by createTime
		ScanIndexForward: aws.Bool(false),
		ConsistentRead:   aws.Bool(true),
	}
	if input.Limit > 0 {
		query.Limit = aws.Int32(input.Limit)
	}
	output, err := s.DynamoDB.Query(ctx, query)
	if err != nil {
		return store.Page{}, err
	}
	return store.Page{
		Items:   output.Items,
		LastKey: output.LastEvaluatedKey,
	}, nil
}

// _updateExpression writes the SET clause by hand: the expression builder
// would marshal the attribute values a second time.
func _updateExpression(fields store.Item) (string, map[string]string, map[string]types.AttributeValue) {
	names := map[string]string{
		"#pk": store.PARTITION_KEY,
		"#sk": store.SORT_KEY,
	}
	values := make(map[string]types.AttributeValue, len(fields))
	fieldNames := maps.Keys(fields)
	sort.Strings(fieldNames)
	clauses := make([]string, 0, len(fieldNames))
	for i, field := range fieldNames {
		name := fmt.Sprintf("#f%d", i)
		value := fmt.Sprintf(":v%d", i)
		names[name] = field
		values[value] = fields[field]
		clauses = append(clauses, fmt.Sprintf("%s = %s", name, value))
	}
	return "SET " + strings.Join(clauses, ", "), names, values
}

func (s *DynamoDBStore) Update(ctx context.Context, collection string, id string, fields store.Item) (store.Item, error) {
	if err := s.lifecycle.Ready(); err != nil {
		return nil, err
	}
	fields = maps.Clone(fields)
	delete(fields, store.PARTITION_KEY)
	delete(fields, store.SORT_KEY)
	if len(fields) == 0 {
		return s.Get(ctx, collection, id)
	}
	update, names, values := _updateExpression(fields)
	output, err := s.DynamoDB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.TableName),
		Key:                       store.Key(collection, id),
		UpdateExpression:          aws.String(update),
		ConditionExpression:       aws.String("attribute_exists(#pk) AND attribute_exists(#sk)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return nil, exceptions.NotFound(collection, id)
	}
	if err != nil {
		return nil, err
	}
	return output.Attributes, nil
}

func (s *DynamoDBStore) Delete(ctx context.Context, collection string, id string) error {
	if err := s.lifecycle.Ready(); err != nil {
		return err
	}
	_, err := s.DynamoDB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.TableName),
		Key:       store.Key(collection, id),
	})
	return err
}

// Watch subscribes to the collection and makes sure the stream is being
// read. It returns once the poller holds iterators for every open shard, so
// writes made after Watch returns are observed.
func (s *DynamoDBStore) Watch(ctx context.Context, collection string) (store.Feed, error) {
	if err := s.lifecycle.Ready(); err != nil {
		return nil, err
	}
	if s.streamArn == "" {
		return nil, fmt.Errorf("%s: %w", s.TableName, ErrStreamDisabled)
	}
	feed := s.hub.Subscribe(collection)
	p := s.startPolling()
	select {
	case <-p.ready:
	case <-p.done:
	case <-ctx.Done():
		feed.Close()
		return nil, ctx.Err()
	}
	return feed, nil
}

func (s *DynamoDBStore) startPolling() *poll {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poll != nil {
		return s.poll
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &poll{
		cancel: cancel,
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}
	s.poll = p
	poller := &StreamPoller{
		Streams:   s.Streams,
		StreamArn: s.streamArn,
		Interval:  s.PollInterval,
		Publish:   s.hub.Publish,
		Logger:    s.Logger,
	}
	go func() {
		defer close(p.done)
		err := poller.Run(ctx, p.ready)
		s.mu.Lock()
		if s.poll == p {
			s.poll = nil
		}
		s.mu.Unlock()
		if err != nil {
			s.Logger.Error("stream poller failed", zap.Error(err))
			s.hub.Fail(err)
		}
	}()
	return p
}

func (s *DynamoDBStore) stopPolling() {
	s.mu.Lock()
	p := s.poll
	if p == nil || s.hub.Count() > 0 {
		s.mu.Unlock()
		return
	}
	s.poll = nil
	s.mu.Unlock()
	p.cancel()
	<-p.done
}
