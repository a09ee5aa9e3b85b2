package events

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
)

type EventFilter interface {
	Filter(record events.DynamoDBEventRecord) bool
	Apply(ctx context.Context, record events.DynamoDBEventRecord) error
}
