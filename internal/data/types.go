package data

import "context"

const MAX_PAGE_SIZE = 100

type QueryParams struct {
	Limit     int    `json:"limit"`
	NextToken []byte `json:"nextToken"`
}

func (q *QueryParams) GetLimit() *int32 {
	limit := int32(q.Limit)
	if limit <= 0 || limit > MAX_PAGE_SIZE {
		limit = MAX_PAGE_SIZE
	}
	return &limit
}

type QueryResults[T interface{}] struct {
	Items     []T    `json:"items"`
	NextToken []byte `json:"nextToken"`
}

type NextToken map[string]map[string]string

// Repository is the CRUD contract shared by every entity type. List and All
// both return newest documents first.
type Repository[T interface{}, I interface{}] interface {
	Create(ctx context.Context, input I) (T, error)
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context, params QueryParams) (QueryResults[T], error)
	All(ctx context.Context) ([]T, error)
	Update(ctx context.Context, id string, input I) (T, error)
	Delete(ctx context.Context, id string) error
}
