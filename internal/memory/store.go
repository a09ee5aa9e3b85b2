// Package memory is a process local DocumentStore. It backs the unit tests
// and local runs where no DynamoDB endpoint is configured.
package memory

import (
	"context"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/store"
)

type Store struct {
	// InitError, when set, makes Open fail with it.
	InitError   error
	lifecycle   store.Lifecycle
	mu          sync.RWMutex
	collections map[string]map[string]store.Item
	hub         *store.Hub
}

func New() *Store {
	return &Store{
		collections: make(map[string]map[string]store.Item),
		hub:         store.NewHub(),
	}
}

func (s *Store) Open(ctx context.Context) error {
	return s.lifecycle.Open(func() error {
		return s.InitError
	})
}

func (s *Store) Close() error {
	return s.lifecycle.Close(func() error {
		s.hub.Close()
		return nil
	})
}

func (s *Store) Hub() *store.Hub {
	return s.hub
}

func (s *Store) Put(ctx context.Context, collection string, id string, item store.Item) error {
	if err := s.lifecycle.Ready(); err != nil {
		return err
	}
	s.mu.Lock()
	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]store.Item)
		s.collections[collection] = docs
	}
	if _, exists := docs[id]; exists {
		s.mu.Unlock()
		return exceptions.Conflict(collection, id)
	}
	stored := maps.Clone(item)
	maps.Copy(stored, store.Key(collection, id))
	docs[id] = stored
	s.mu.Unlock()
	s.hub.Publish(store.Change{Collection: collection, Id: id, Action: store.ActionInsert})
	return nil
}

func (s *Store) Get(ctx context.Context, collection string, id string) (store.Item, error) {
	if err := s.lifecycle.Ready(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.collections[collection][id]
	if !ok {
		return nil, exceptions.NotFound(collection, id)
	}
	return maps.Clone(item), nil
}

func (s *Store) Query(ctx context.Context, collection string, input store.QueryInput) (store.Page, error) {
	if err := s.lifecycle.Ready(); err != nil {
		return store.Page{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := s.collections[collection]
	ids := maps.Keys(docs)
	// descending UUIDv7 ids; matches createTime order only within one process
	slices.SortFunc(ids, func(a, b string) int {
		return -compareStrings(a, b)
	})
	if input.StartKey != nil {
		after := store.KeyValue(input.StartKey, store.SORT_KEY)
		start := 0
		for start < len(ids) && ids[start] >= after {
			start++
		}
		ids = ids[start:]
	}
	page := store.Page{Items: make([]store.Item, 0, len(ids))}
	for _, id := range ids {
		if input.Limit > 0 && len(page.Items) == int(input.Limit) {
			last := page.Items[len(page.Items)-1]
			page.LastKey = store.Key(collection, store.KeyValue(last, store.SORT_KEY))
			break
		}
		page.Items = append(page.Items, maps.Clone(docs[id]))
	}
	return page, nil
}

func (s *Store) Update(ctx context.Context, collection string, id string, fields store.Item) (store.Item, error) {
	if err := s.lifecycle.Ready(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	current, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return nil, exceptions.NotFound(collection, id)
	}
	merged := maps.Clone(current)
	maps.Copy(merged, fields)
	maps.Copy(merged, store.Key(collection, id))
	s.collections[collection][id] = merged
	s.mu.Unlock()
	s.hub.Publish(store.Change{Collection: collection, Id: id, Action: store.ActionModify})
	return maps.Clone(merged), nil
}

func (s *Store) Delete(ctx context.Context, collection string, id string) error {
	if err := s.lifecycle.Ready(); err != nil {
		return err
	}
	s.mu.Lock()
	_, existed := s.collections[collection][id]
	delete(s.collections[collection], id)
	s.mu.Unlock()
	if existed {
		s.hub.Publish(store.Change{Collection: collection, Id: id, Action: store.ActionRemove})
	}
	return nil
}

func (s *Store) Watch(ctx context.Context, collection string) (store.Feed, error) {
	if err := s.lifecycle.Ready(); err != nil {
		return nil, err
	}
	return s.hub.Subscribe(collection), nil
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
