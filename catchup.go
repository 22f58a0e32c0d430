package ripple

import (
	"sync"
	"sync/atomic"
)

// stamped is an element tagged with its position in a source's history.
type stamped[T any] struct {
	seq   uint64
	value T
}

// catchUp feeds one observer a snapshot followed by live elements.
//
// It joins the live feed before the snapshot is taken. Elements are queued
// and delivered by one goroutine at a time, in queue order, and any element
// at or before the last delivered seq is dropped. An element queued from
// inside the observer is delivered after the observer returns.
type catchUp[T any] struct {
	observer Observer[T]
	stopped  atomic.Bool

	mu    sync.Mutex
	busy  bool
	queue []stamped[T]
	last  uint64
}

// newCatchUp returns a sink that holds live elements until replay runs.
func newCatchUp[T any](observer Observer[T]) *catchUp[T] {
	return &catchUp[T]{observer: observer, busy: true}
}

// live receives an element from the shared feed.
func (c *catchUp[T]) live(s stamped[T]) {
	c.mu.Lock()
	c.queue = append(c.queue, s)
	if c.busy {
		c.mu.Unlock()
		return
	}
	c.busy = true
	c.mu.Unlock()

	c.drain()
}

// replay delivers snapshot ahead of anything held so far, then switches to
// live delivery.
func (c *catchUp[T]) replay(snapshot []stamped[T]) {
	c.mu.Lock()
	c.queue = append(snapshot, c.queue...)
	c.mu.Unlock()

	c.drain()
}

func (c *catchUp[T]) drain() {
	for {
		c.mu.Lock()
		if len(c.queue) == 0 {
			c.busy = false
			c.mu.Unlock()
			return
		}
		s := c.queue[0]
		c.queue = c.queue[1:]
		if s.seq <= c.last {
			c.mu.Unlock()
			continue
		}
		c.last = s.seq
		c.mu.Unlock()

		if !c.stopped.Load() {
			c.observer(s.value)
		}
	}
}

func (c *catchUp[T]) stop() {
	c.stopped.Store(true)
}
