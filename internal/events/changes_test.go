package events

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"philcali.me/recipesync/internal/notifications"
	"philcali.me/recipesync/internal/store"
)

type fakePublisher struct {
	notices []notifications.ChangeNotice
	err     error
}

func (f *fakePublisher) Subscribe(ctx context.Context, input notifications.SubscribeInput) (*notifications.SubscribeOutput, error) {
	return nil, errors.New("unsupported")
}

func (f *fakePublisher) Unsubscribe(ctx context.Context, subscriberId string) error {
	return errors.New("unsupported")
}

func (f *fakePublisher) Publish(ctx context.Context, notice notifications.ChangeNotice) error {
	if f.err != nil {
		return f.err
	}
	f.notices = append(f.notices, notice)
	return nil
}

func _image(pk string, sk string, fields map[string]string) map[string]events.DynamoDBAttributeValue {
	image := map[string]events.DynamoDBAttributeValue{
		"PK": events.NewStringAttribute(pk),
		"SK": events.NewStringAttribute(sk),
	}
	for name, value := range fields {
		image[name] = events.NewStringAttribute(value)
	}
	return image
}

func TestPublishChangeHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("RecipeLifecycle", func(t *testing.T) {
		publisher := &fakePublisher{}
		handler := DefaultPublishHandler(publisher)
		insert := events.DynamoDBEventRecord{
			EventName: "INSERT",
			Change: events.DynamoDBStreamRecord{
				NewImage: _image("recipes", "r1", map[string]string{"title": "Crêpes"}),
			},
		}
		remove := events.DynamoDBEventRecord{
			EventName: "REMOVE",
			Change: events.DynamoDBStreamRecord{
				OldImage: _image("recipes", "r1", map[string]string{"title": "Crêpes"}),
			},
		}
		for _, record := range []events.DynamoDBEventRecord{insert, remove} {
			require.True(t, handler.Filter(record))
			require.NoError(t, handler.Apply(ctx, record))
		}
		require.Len(t, publisher.notices, 2)
		assert.Equal(t, notifications.ChangeNotice{
			Collection: "recipes",
			Id:         "r1",
			Action:     store.ActionInsert,
			Message:    "Recipe r1 (Crêpes) was created",
		}, publisher.notices[0])
		assert.Equal(t, "Recipe r1 (Crêpes) was deleted", publisher.notices[1].Message)
	})

	t.Run("KeysOnlyList", func(t *testing.T) {
		publisher := &fakePublisher{}
		handler := DefaultPublishHandler(publisher)
		record := events.DynamoDBEventRecord{
			EventName: "MODIFY",
			Change: events.DynamoDBStreamRecord{
				Keys: _image("shoppingLists", "l1", nil),
			},
		}
		require.True(t, handler.Filter(record))
		require.NoError(t, handler.Apply(ctx, record))
		assert.Equal(t, "Shopping list l1 was updated", publisher.notices[0].Message)
		assert.Equal(t, store.ActionModify, publisher.notices[0].Action)
	})

	t.Run("UnknownCollection", func(t *testing.T) {
		handler := DefaultPublishHandler(&fakePublisher{})
		record := events.DynamoDBEventRecord{
			EventName: "INSERT",
			Change: events.DynamoDBStreamRecord{
				NewImage: _image("settings", "s1", nil),
			},
		}
		assert.False(t, handler.Filter(record))
	})
}

func TestDispatch(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("topic unavailable")}
	handlers := []EventFilter{DefaultPublishHandler(publisher)}
	event := events.DynamoDBEvent{
		Records: []events.DynamoDBEventRecord{
			{
				EventID:   "1",
				EventName: "INSERT",
				Change: events.DynamoDBStreamRecord{
					NewImage: _image("recipes", "r1", nil),
				},
			},
			{
				EventID:   "2",
				EventName: "INSERT",
				Change: events.DynamoDBStreamRecord{
					NewImage: _image("settings", "s1", nil),
				},
			},
		},
	}
	err := Dispatch(context.Background(), handlers, event, zap.NewNop())
	assert.ErrorContains(t, err, "topic unavailable")

	publisher.err = nil
	require.NoError(t, Dispatch(context.Background(), handlers, event, zap.NewNop()))
	assert.Len(t, publisher.notices, 1)
}
