package store

import (
	"sync"

	"golang.org/x/exp/maps"
)

const FEED_BUFFER = 64

type Action string

const (
	ActionInsert Action = "INSERT"
	ActionModify Action = "MODIFY"
	ActionRemove Action = "REMOVE"
)

// Change reports that one document of a collection was written.
type Change struct {
	Collection string `json:"collection"`
	Id         string `json:"id"`
	Action     Action `json:"action"`
}

// Feed is a live change notification stream for one collection. The
// channel is closed when the feed ends; Err then reports why.
type Feed interface {
	Changes() <-chan Change
	Err() error
	Close()
}

type listener struct {
	hub        *Hub
	collection string
	ch         chan Change
	mu         sync.Mutex
	err        error
	closed     bool
}

func (l *listener) Changes() <-chan Change {
	return l.ch
}

func (l *listener) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *listener) Close() {
	l.hub.remove(l, nil)
}

// must hold hub.mu
func (l *listener) end(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.err = err
	close(l.ch)
}

// Hub fans store changes out to every feed watching the changed collection.
// A slow feed never blocks publishers: when its buffer is full the change is
// dropped, which is safe because a pending change already forces a re-read.
type Hub struct {
	mu        sync.Mutex
	listeners map[string]map[*listener]struct{}
	closed    bool
	OnIdle    func()
}

func NewHub() *Hub {
	return &Hub{
		listeners: make(map[string]map[*listener]struct{}),
	}
}

func (h *Hub) Subscribe(collection string) Feed {
	h.mu.Lock()
	defer h.mu.Unlock()
	l := &listener{
		hub:        h,
		collection: collection,
		ch:         make(chan Change, FEED_BUFFER),
	}
	if h.closed {
		l.end(errHubClosed)
		return l
	}
	set, ok := h.listeners[collection]
	if !ok {
		set = make(map[*listener]struct{})
		h.listeners[collection] = set
	}
	set[l] = struct{}{}
	return l
}

func (h *Hub) Publish(change Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for l := range h.listeners[change.Collection] {
		select {
		case l.ch <- change:
		default:
		}
	}
}

// Fail ends every open feed with err.
func (h *Hub) Fail(err error) {
	h.mu.Lock()
	removed := h.drain(err)
	idle := h.OnIdle
	h.mu.Unlock()
	if removed > 0 && idle != nil {
		idle()
	}
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.drain(errHubClosed)
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	count := 0
	for _, set := range h.listeners {
		count += len(set)
	}
	return count
}

// must hold h.mu
func (h *Hub) drain(err error) int {
	removed := 0
	for _, collection := range maps.Keys(h.listeners) {
		for l := range h.listeners[collection] {
			l.end(err)
			removed++
		}
		delete(h.listeners, collection)
	}
	return removed
}

func (h *Hub) remove(l *listener, err error) {
	h.mu.Lock()
	set := h.listeners[l.collection]
	_, found := set[l]
	if found {
		delete(set, l)
		if len(set) == 0 {
			delete(h.listeners, l.collection)
		}
	}
	l.end(err)
	idle := found && len(h.listeners) == 0 && !h.closed
	onIdle := h.OnIdle
	h.mu.Unlock()
	if idle && onIdle != nil {
		onIdle()
	}
}
