package store

import (
	"sync"

	"philcali.me/recipesync/internal/exceptions"
)

type lifecycleState int

const (
	stateNew lifecycleState = iota
	stateOpen
	stateFailed
	stateClosed
)

// Lifecycle tracks whether a store may serve operations. A failed open is
// permanent for the lifetime of the value.
type Lifecycle struct {
	mu    sync.RWMutex
	state lifecycleState
	cause error
}

func (l *Lifecycle) Open(init func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case stateOpen:
		return nil
	case stateFailed, stateClosed:
		return exceptions.NotInitialized(l.cause)
	}
	if err := init(); err != nil {
		l.state = stateFailed
		l.cause = err
		return exceptions.NotInitialized(err)
	}
	l.state = stateOpen
	return nil
}

func (l *Lifecycle) Ready() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.state == stateOpen {
		return nil
	}
	return exceptions.NotInitialized(l.cause)
}

func (l *Lifecycle) Close(teardown func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != stateOpen {
		if l.state == stateNew {
			l.state = stateClosed
		}
		return nil
	}
	l.state = stateClosed
	if teardown != nil {
		return teardown()
	}
	return nil
}
