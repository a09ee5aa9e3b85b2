package services

import (
	"sync"
	"time"
)

// Clock hands out wall clock stamps that never repeat or go backwards
// within the process.
type Clock struct {
	Now  func() time.Time
	mu   sync.Mutex
	last time.Time
}

func NewClock() *Clock {
	return &Clock{Now: time.Now}
}

func (c *Clock) Stamp() time.Time {
	now := c.Now().UTC().Round(0)
	c.mu.Lock()
	defer c.mu.Unlock()
	if !now.After(c.last) {
		now = c.last.Add(time.Nanosecond)
	}
	c.last = now
	return now
}
