package events

import (
	"context"
	"errors"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// Dispatch runs every matching handler over every record. A failing
// handler does not stop the batch; all failures are joined.
func Dispatch(ctx context.Context, handlers []EventFilter, event events.DynamoDBEvent, logger *zap.Logger) error {
	var errs []error
	for _, record := range event.Records {
		for _, handler := range handlers {
			if !handler.Filter(record) {
				continue
			}
			if err := handler.Apply(ctx, record); err != nil {
				logger.Error("failed to apply handler",
					zap.String("eventId", record.EventID),
					zap.String("eventName", record.EventName),
					zap.Error(err))
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
