package ripple

import (
	"context"
	"sync"

	"github.com/zoobzio/capitan"
)

// Queue is an Executor backed by a single worker goroutine.
// Actions run one at a time, in submission order.
type Queue struct {
	mu      sync.Mutex
	actions []func()
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

// NewQueue starts a Queue. Call Close to stop its worker.
func NewQueue() *Queue {
	q := &Queue{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	capitan.Emit(context.Background(), QueueStarted)
	go q.run()
	return q
}

// Submit enqueues action. Actions submitted after Close are dropped.
func (q *Queue) Submit(action func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.actions = append(q.actions, action)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of actions waiting to run.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.actions)
}

// Flush blocks until every action submitted before the call has run, or
// ctx is done.
func (q *Queue) Flush(ctx context.Context) error {
	flushed := make(chan struct{})
	q.Submit(func() { close(flushed) })

	select {
	case <-flushed:
		return nil
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting actions and waits for the queued ones to run.
// It returns ctx.Err() if ctx ends first; the worker keeps draining.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) run() {
	defer func() {
		capitan.Emit(context.Background(), QueueStopped,
			KeyPending.Field(q.Pending()),
		)
		close(q.done)
	}()

	for {
		q.mu.Lock()
		for len(q.actions) == 0 && !q.closed {
			q.mu.Unlock()
			<-q.wake
			q.mu.Lock()
		}
		if len(q.actions) == 0 {
			q.mu.Unlock()
			return
		}
		action := q.actions[0]
		q.actions[0] = nil
		q.actions = q.actions[1:]
		q.mu.Unlock()

		action()
	}
}
