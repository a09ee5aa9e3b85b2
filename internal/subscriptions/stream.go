package subscriptions

import "context"

type Snapshot[T interface{}] struct {
	Items []T
	Err   error
}

// Stream is the pull form of a subscription. Only the latest unread
// snapshot is kept; the channel is closed when the subscription ends.
type Stream[T interface{}] struct {
	sub *Subscription
	ch  chan Snapshot[T]
}

func (m *Multiplexer[T]) Stream(ctx context.Context) *Stream[T] {
	ch := make(chan Snapshot[T], 1)
	sub := m.Subscribe(ctx, func(items []T, err error) {
		select {
		case <-ch:
		default:
		}
		ch <- Snapshot[T]{Items: items, Err: err}
	})
	go func() {
		<-sub.Done()
		close(ch)
	}()
	return &Stream[T]{sub: sub, ch: ch}
}

func (s *Stream[T]) C() <-chan Snapshot[T] {
	return s.ch
}

// Next blocks for the next snapshot. It returns false once the stream ended
// or ctx is done.
func (s *Stream[T]) Next(ctx context.Context) (Snapshot[T], bool) {
	select {
	case snapshot, ok := <-s.ch:
		return snapshot, ok
	case <-ctx.Done():
		return Snapshot[T]{}, false
	}
}

func (s *Stream[T]) Cancel() {
	s.sub.Cancel()
}

func (s *Stream[T]) Done() <-chan struct{} {
	return s.sub.Done()
}
