package documents

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"philcali.me/recipesync/internal/logger"
	"philcali.me/recipesync/internal/store"
)

const DISCOVERY_FACTOR = 10

// StreamPoller reads every shard of a table stream and publishes the key of
// each changed document.
type StreamPoller struct {
	Streams   StreamsAPI
	StreamArn string
	Interval  time.Duration
	Publish   func(store.Change)
	Logger    *zap.Logger
}

func (sp *StreamPoller) _interval() time.Duration {
	if sp.Interval <= 0 {
		return DEFAULT_POLL_INTERVAL
	}
	return sp.Interval
}

func (sp *StreamPoller) shards(ctx context.Context) ([]types.Shard, error) {
	var shards []types.Shard
	var startShardId *string
	for {
		output, err := sp.Streams.DescribeStream(ctx, &dynamodbstreams.DescribeStreamInput{
			StreamArn:             aws.String(sp.StreamArn),
			ExclusiveStartShardId: startShardId,
		})
		if err != nil {
			return nil, err
		}
		if output.StreamDescription == nil {
			return shards, nil
		}
		shards = append(shards, output.StreamDescription.Shards...)
		startShardId = output.StreamDescription.LastEvaluatedShardId
		if startShardId == nil {
			return shards, nil
		}
	}
}

func (sp *StreamPoller) iterator(ctx context.Context, shardId string, iteratorType types.ShardIteratorType) (*string, error) {
	output, err := sp.Streams.GetShardIterator(ctx, &dynamodbstreams.GetShardIteratorInput{
		StreamArn:         aws.String(sp.StreamArn),
		ShardId:           aws.String(shardId),
		ShardIteratorType: iteratorType,
	})
	if err != nil {
		return nil, err
	}
	return output.ShardIterator, nil
}

// Run reads the stream until ctx is done or a shard fails. ready is closed
// once every open shard has an iterator positioned at the stream tip.
func (sp *StreamPoller) Run(ctx context.Context, ready chan<- struct{}) error {
	log := logger.OrNop(sp.Logger).With(zap.String("stream", sp.StreamArn))
	group, groupCtx := errgroup.WithContext(ctx)
	seen := map[string]bool{}

	initial, err := sp.shards(ctx)
	if err != nil {
		return sp._stopped(ctx, err)
	}
	for _, shard := range initial {
		shardId := aws.ToString(shard.ShardId)
		seen[shardId] = true
		if shard.SequenceNumberRange != nil && shard.SequenceNumberRange.EndingSequenceNumber != nil {
			continue
		}
		iterator, err := sp.iterator(ctx, shardId, types.ShardIteratorTypeLatest)
		if err != nil {
			return sp._stopped(ctx, err)
		}
		group.Go(func() error {
			return sp.read(groupCtx, shardId, iterator)
		})
	}
	close(ready)
	log.Debug("stream poller started", zap.Int("shards", len(initial)))

	group.Go(func() error {
		ticker := time.NewTicker(sp._interval() * DISCOVERY_FACTOR)
		defer ticker.Stop()
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case <-ticker.C:
			}
			shards, err := sp.shards(groupCtx)
			if err != nil {
				return err
			}
			for _, shard := range shards {
				shardId := aws.ToString(shard.ShardId)
				if seen[shardId] {
					continue
				}
				seen[shardId] = true
				iterator, err := sp.iterator(groupCtx, shardId, types.ShardIteratorTypeTrimHorizon)
				if err != nil {
					return err
				}
				log.Debug("reading new shard", zap.String("shard", shardId))
				group.Go(func() error {
					return sp.read(groupCtx, shardId, iterator)
				})
			}
		}
	})
	return sp._stopped(ctx, group.Wait())
}

func (sp *StreamPoller) _stopped(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (sp *StreamPoller) read(ctx context.Context, shardId string, iterator *string) error {
	for iterator != nil {
		output, err := sp.Streams.GetRecords(ctx, &dynamodbstreams.GetRecordsInput{
			ShardIterator: iterator,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var expired *types.ExpiredIteratorException
			if !errors.As(err, &expired) {
				return err
			}
			logger.OrNop(sp.Logger).Warn("shard iterator expired", zap.String("shard", shardId))
			if iterator, err = sp.iterator(ctx, shardId, types.ShardIteratorTypeLatest); err != nil {
				return err
			}
			continue
		}
		for _, record := range output.Records {
			if change, ok := ChangeFromRecord(record); ok {
				sp.Publish(change)
			}
		}
		iterator = output.NextShardIterator
		if len(output.Records) == 0 && iterator != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(sp._interval()):
			}
		}
	}
	return nil
}

// ChangeFromRecord maps a stream record onto the document it changed.
func ChangeFromRecord(record types.Record) (store.Change, bool) {
	if record.Dynamodb == nil {
		return store.Change{}, false
	}
	collection, cok := record.Dynamodb.Keys[store.PARTITION_KEY].(*types.AttributeValueMemberS)
	id, iok := record.Dynamodb.Keys[store.SORT_KEY].(*types.AttributeValueMemberS)
	if !cok || !iok {
		return store.Change{}, false
	}
	return store.Change{
		Collection: collection.Value,
		Id:         id.Value,
		Action:     store.Action(record.EventName),
	}, true
}
