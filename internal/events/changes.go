package events

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/notifications"
	"philcali.me/recipesync/internal/store"
)

type ChangeMessageFormat func(id string, title string, action store.Action) string

func _getRecordImage(record events.DynamoDBEventRecord) map[string]events.DynamoDBAttributeValue {
	if record.Change.NewImage != nil {
		return record.Change.NewImage
	}
	if record.Change.OldImage != nil {
		return record.Change.OldImage
	}
	return record.Change.Keys
}

func _stringAttribute(image map[string]events.DynamoDBAttributeValue, name string) string {
	value, ok := image[name]
	if !ok || value.DataType() != events.DataTypeString {
		return ""
	}
	return value.String()
}

func _verb(action store.Action) string {
	switch action {
	case store.ActionInsert:
		return "created"
	case store.ActionRemove:
		return "deleted"
	default:
		return "updated"
	}
}

func _formatRecipe(id string, title string, action store.Action) string {
	if title == "" {
		return fmt.Sprintf("Recipe %s was %s", id, _verb(action))
	}
	return fmt.Sprintf("Recipe %s (%s) was %s", id, title, _verb(action))
}

func _formatList(id string, name string, action store.Action) string {
	if name == "" {
		return fmt.Sprintf("Shopping list %s was %s", id, _verb(action))
	}
	return fmt.Sprintf("Shopping list %s (%s) was %s", id, name, _verb(action))
}

// PublishChangeHandler forwards stream records of the watched collections
// to a notification topic.
type PublishChangeHandler struct {
	Publisher notifications.NotificationService
	// Formats maps a collection to its message format and the image
	// attribute holding the display name.
	Formats map[string]ChangeFormat
}

type ChangeFormat struct {
	NameField string
	Format    ChangeMessageFormat
}

func (ph *PublishChangeHandler) Filter(record events.DynamoDBEventRecord) bool {
	collection := _stringAttribute(_getRecordImage(record), store.PARTITION_KEY)
	_, ok := ph.Formats[collection]
	return ok
}

func (ph *PublishChangeHandler) Apply(ctx context.Context, record events.DynamoDBEventRecord) error {
	image := _getRecordImage(record)
	collection := _stringAttribute(image, store.PARTITION_KEY)
	format := ph.Formats[collection]
	id := _stringAttribute(image, store.SORT_KEY)
	action := store.Action(record.EventName)
	return ph.Publisher.Publish(ctx, notifications.ChangeNotice{
		Collection: collection,
		Id:         id,
		Action:     action,
		Message:    format.Format(id, _stringAttribute(image, format.NameField), action),
	})
}

func DefaultPublishHandler(publisher notifications.NotificationService) *PublishChangeHandler {
	return &PublishChangeHandler{
		Publisher: publisher,
		Formats: map[string]ChangeFormat{
			data.RECIPES_COLLECTION: {
				NameField: "title",
				Format:    _formatRecipe,
			},
			data.SHOPPING_LISTS_COLLECTION: {
				NameField: "name",
				Format:    _formatList,
			},
		},
	}
}
