// Package subscriptions turns a store change feed into live query snapshots.
package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/logger"
	"philcali.me/recipesync/internal/store"
)

var (
	ErrInitialLoadTimeout = errors.New("initial load timeout: no snapshot received")
	ErrFeedEnded          = errors.New("change feed ended")
)

// Query reads the full current state of the collection, newest first.
type Query[T interface{}] func(ctx context.Context) ([]T, error)

type Options struct {
	InitialTimeout time.Duration
	Logger         *zap.Logger
}

type Option func(*Options)

// WithInitialTimeout reports a timeout error when no first snapshot is
// delivered in time. A later snapshot is still delivered.
func WithInitialTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.InitialTimeout = timeout
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// Multiplexer opens one independent live query per subscriber. Subscribers
// of the same collection do not share feeds or queries.
type Multiplexer[T interface{}] struct {
	Store      store.DocumentStore
	Collection string
	Query      Query[T]
	Options    Options
}

func NewMultiplexer[T interface{}](documents store.DocumentStore, collection string, query Query[T], opts ...Option) *Multiplexer[T] {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}
	options.Logger = logger.OrNop(options.Logger)
	return &Multiplexer[T]{
		Store:      documents,
		Collection: collection,
		Query:      query,
		Options:    options,
	}
}

type result[T interface{}] struct {
	items []T
	err   error
}

func (m *Multiplexer[T]) _op() string {
	return fmt.Sprintf("%s.Subscribe", m.Collection)
}

// Subscribe delivers the current snapshot of the collection, then a fresh
// snapshot after every change, until the subscription is cancelled or fails.
// Callbacks run one at a time on a goroutine owned by the subscription. A
// failure is delivered once as (nil, err) and ends the subscription.
func (m *Multiplexer[T]) Subscribe(ctx context.Context, onChange func([]T, error)) *Subscription {
	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		ctx:    subCtx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	feed, err := m.Store.Watch(subCtx, m.Collection)
	if err != nil {
		m.Options.Logger.Warn("failed to watch collection",
			zap.String("collection", m.Collection),
			zap.Error(err))
		go func() {
			defer close(sub.done)
			sub.deliver(func() {
				onChange(nil, exceptions.Wrap(m._op(), err))
			})
		}()
		return sub
	}
	m.Options.Logger.Debug("subscribed", zap.String("collection", m.Collection))
	go m.run(sub, feed, onChange)
	return sub
}

func (m *Multiplexer[T]) run(sub *Subscription, feed store.Feed, onChange func([]T, error)) {
	ctx := sub.ctx
	var wg sync.WaitGroup
	defer close(sub.done)
	defer feed.Close()
	defer wg.Wait()

	var timeout <-chan time.Time
	if m.Options.InitialTimeout > 0 {
		timer := time.NewTimer(m.Options.InitialTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	fail := func(err error) {
		if ctx.Err() != nil {
			return
		}
		m.Options.Logger.Warn("subscription failed",
			zap.String("collection", m.Collection),
			zap.Error(err))
		sub.deliver(func() {
			onChange(nil, exceptions.Wrap(m._op(), err))
		})
	}

	results := make(chan result[T], 1)
	changes := feed.Changes()
	pending := true
	inFlight := false
	for {
		if pending && !inFlight {
			pending = false
			inFlight = true
			wg.Add(1)
			go func() {
				defer wg.Done()
				items, err := m.Query(ctx)
				results <- result[T]{items: items, err: err}
			}()
		}
		select {
		case <-ctx.Done():
			return
		case <-timeout:
			timeout = nil
			m.Options.Logger.Warn("initial load timed out",
				zap.String("collection", m.Collection),
				zap.Duration("timeout", m.Options.InitialTimeout))
			sub.deliver(func() {
				onChange(nil, exceptions.Wrap(m._op(), ErrInitialLoadTimeout))
			})
		case _, ok := <-changes:
			if !ok {
				err := feed.Err()
				if err == nil {
					err = ErrFeedEnded
				}
				fail(err)
				return
			}
			pending = true
		case r := <-results:
			inFlight = false
			if r.err != nil {
				fail(r.err)
				return
			}
			timeout = nil
			sub.deliver(func() {
				onChange(r.items, nil)
			})
		}
	}
}

// Subscription is the cancellation handle of one live query.
type Subscription struct {
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
	mu         sync.Mutex
	cancelled  bool
	delivering bool
}

func (s *Subscription) deliver(callback func()) {
	s.mu.Lock()
	if s.cancelled || s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.delivering = false
		s.mu.Unlock()
	}()
	callback()
}

// Cancel stops the subscription and releases its feed. No callback starts
// after Cancel returns. Cancel waits for the subscription goroutine to exit
// unless a callback is running, which allows calling it from the callback.
func (s *Subscription) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	delivering := s.delivering
	s.mu.Unlock()
	s.cancel()
	if !delivering {
		<-s.done
	}
}

// Done is closed once the subscription goroutine has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}
