// Package store defines the document store contract the repositories are
// built on. Items are DynamoDB attribute maps regardless of the backend.
package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	PARTITION_KEY = "PK"
	SORT_KEY      = "SK"
)

type Item = map[string]types.AttributeValue

type QueryInput struct {
	// Limit of zero means no limit.
	Limit    int32
	StartKey Item
}

type Page struct {
	Items   []Item
	LastKey Item
}

type DocumentStore interface {
	Open(ctx context.Context) error
	Close() error
	// Put creates a document and fails with a conflict when the id exists.
	Put(ctx context.Context, collection string, id string, item Item) error
	Get(ctx context.Context, collection string, id string) (Item, error)
	// Query returns one page of the collection, newest document first.
	Query(ctx context.Context, collection string, input QueryInput) (Page, error)
	// Update replaces the named top level fields of an existing document and
	// returns the merged document.
	Update(ctx context.Context, collection string, id string, fields Item) (Item, error)
	Delete(ctx context.Context, collection string, id string) error
	// Watch opens a live change feed over the collection.
	Watch(ctx context.Context, collection string) (Feed, error)
}

// Key builds the primary key attributes shared by every backend.
func Key(collection string, id string) Item {
	return Item{
		PARTITION_KEY: &types.AttributeValueMemberS{Value: collection},
		SORT_KEY:      &types.AttributeValueMemberS{Value: id},
	}
}

func KeyValue(item Item, name string) string {
	if sv, ok := item[name].(*types.AttributeValueMemberS); ok {
		return sv.Value
	}
	return ""
}
