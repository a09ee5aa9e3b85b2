package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/google/uuid"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/store"
	"philcali.me/recipesync/internal/token"
)

const UPDATE_TIME_FIELD = "updateTime"

// UpdateFields collects the top level fields replaced by an update.
type UpdateFields map[string]interface{}

func (uf UpdateFields) Set(name string, value interface{}) UpdateFields {
	uf[name] = value
	return uf
}

// RepositoryService implements data.Repository for one collection of a
// DocumentStore. Entities are marshaled with their dynamodbav tags.
type RepositoryService[T interface{}, I interface{}] struct {
	Store          store.DocumentStore
	TokenMarshaler token.TokenMarshaler
	Collection     string
	Resource       string
	Clock          *Clock
	NewId          func() (string, error)
	Prepare        func(I) (I, error)
	Validate       func(I) error
	OnCreate       func(input I, now time.Time, collection string, id string) T
	OnUpdate       func(input I, update UpdateFields) error
}

func NewId() (string, error) {
	gid, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return gid.String(), nil
}

func (rs *RepositoryService[T, I]) _op(name string) string {
	return fmt.Sprintf("%s.%s", rs.Collection, name)
}

func (rs *RepositoryService[T, I]) _stamp() time.Time {
	if rs.Clock == nil {
		rs.Clock = NewClock()
	}
	return rs.Clock.Stamp()
}

func (rs *RepositoryService[T, I]) _newId() (string, error) {
	if rs.NewId != nil {
		return rs.NewId()
	}
	return NewId()
}

func (rs *RepositoryService[T, I]) _notFound(id string, err error) error {
	var nfe *exceptions.NotFoundError
	if errors.As(err, &nfe) {
		return exceptions.NotFound(rs.Resource, id)
	}
	return err
}

func _decode[T interface{}](resource string, item store.Item) (T, error) {
	var entity T
	if err := attributevalue.UnmarshalMap(item, &entity); err != nil {
		return entity, exceptions.InternalServer(fmt.Sprintf("stored %s is malformed: %v", resource, err))
	}
	return entity, nil
}

// _prepare normalizes the input before any validation or write.
func (rs *RepositoryService[T, I]) _prepare(input I) (I, error) {
	if rs.Prepare == nil {
		return input, nil
	}
	return rs.Prepare(input)
}

func (rs *RepositoryService[T, I]) Create(ctx context.Context, input I) (T, error) {
	var entity T
	input, err := rs._prepare(input)
	if err != nil {
		return entity, exceptions.Wrap(rs._op("Create"), err)
	}
	if rs.Validate != nil {
		if err := rs.Validate(input); err != nil {
			return entity, exceptions.Wrap(rs._op("Create"), err)
		}
	}
	id, err := rs._newId()
	if err != nil {
		return entity, exceptions.Wrap(rs._op("Create"), err)
	}
	entity = rs.OnCreate(input, rs._stamp(), rs.Collection, id)
	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return entity, exceptions.Wrap(rs._op("Create"), err)
	}
	if err := rs.Store.Put(ctx, rs.Collection, id, item); err != nil {
		return entity, exceptions.Wrap(rs._op("Create"), err)
	}
	return entity, nil
}

func (rs *RepositoryService[T, I]) Get(ctx context.Context, id string) (T, error) {
	item, err := rs.Store.Get(ctx, rs.Collection, id)
	if err != nil {
		var entity T
		return entity, exceptions.Wrap(rs._op("Get"), rs._notFound(id, err))
	}
	entity, err := _decode[T](rs.Resource, item)
	return entity, exceptions.Wrap(rs._op("Get"), err)
}

func (rs *RepositoryService[T, I]) List(ctx context.Context, params data.QueryParams) (data.QueryResults[T], error) {
	startKey, err := rs.TokenMarshaler.Unmarshal(rs.Collection, params.NextToken)
	if err != nil {
		return data.QueryResults[T]{}, exceptions.Wrap(rs._op("List"), exceptions.InvalidInput("The nextToken parameter is invalid."))
	}
	page, err := rs.Store.Query(ctx, rs.Collection, store.QueryInput{
		Limit:    *params.GetLimit(),
		StartKey: startKey,
	})
	if err != nil {
		return data.QueryResults[T]{}, exceptions.Wrap(rs._op("List"), err)
	}
	items := make([]T, 0, len(page.Items))
	for _, item := range page.Items {
		entity, err := _decode[T](rs.Resource, item)
		if err != nil {
			return data.QueryResults[T]{}, exceptions.Wrap(rs._op("List"), err)
		}
		items = append(items, entity)
	}
	nextToken, err := rs.TokenMarshaler.Marshal(rs.Collection, page.LastKey)
	if err != nil {
		return data.QueryResults[T]{}, exceptions.Wrap(rs._op("List"), err)
	}
	return data.QueryResults[T]{
		Items:     items,
		NextToken: nextToken,
	}, nil
}

func (rs *RepositoryService[T, I]) All(ctx context.Context) ([]T, error) {
	entities := make([]T, 0)
	var startKey store.Item
	for {
		page, err := rs.Store.Query(ctx, rs.Collection, store.QueryInput{
			Limit:    data.MAX_PAGE_SIZE,
			StartKey: startKey,
		})
		if err != nil {
			return nil, exceptions.Wrap(rs._op("All"), err)
		}
		for _, item := range page.Items {
			entity, err := _decode[T](rs.Resource, item)
			if err != nil {
				return nil, exceptions.Wrap(rs._op("All"), err)
			}
			entities = append(entities, entity)
		}
		if len(page.LastKey) == 0 {
			return entities, nil
		}
		startKey = page.LastKey
	}
}

func (rs *RepositoryService[T, I]) Update(ctx context.Context, id string, input I) (T, error) {
	var entity T
	input, err := rs._prepare(input)
	if err != nil {
		return entity, exceptions.Wrap(rs._op("Update"), err)
	}
	update := UpdateFields{}
	if rs.OnUpdate != nil {
		if err := rs.OnUpdate(input, update); err != nil {
			return entity, exceptions.Wrap(rs._op("Update"), err)
		}
	}
	update.Set(UPDATE_TIME_FIELD, rs._stamp())
	fields := make(store.Item, len(update))
	for name, value := range update {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return entity, exceptions.Wrap(rs._op("Update"), err)
		}
		fields[name] = av
	}
	item, err := rs.Store.Update(ctx, rs.Collection, id, fields)
	if err != nil {
		return entity, exceptions.Wrap(rs._op("Update"), rs._notFound(id, err))
	}
	entity, err = _decode[T](rs.Resource, item)
	return entity, exceptions.Wrap(rs._op("Update"), err)
}

func (rs *RepositoryService[T, I]) Delete(ctx context.Context, id string) error {
	return exceptions.Wrap(rs._op("Delete"), rs.Store.Delete(ctx, rs.Collection, id))
}
