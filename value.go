package ripple

import (
	"sync"
	"sync/atomic"
)

// cell holds the state a Value shares with its upstream subscription.
// It never references the Value, so the Value can be collected.
type cell[T any] struct {
	mu      sync.Mutex
	seq     uint64
	current atomic.Pointer[stamped[T]]
	feed    *Multicast[stamped[T]]
}

func newCell[T any](initial T) *cell[T] {
	c := &cell[T]{feed: NewMulticast[stamped[T]](), seq: 1}
	c.current.Store(&stamped[T]{seq: 1, value: initial})
	return c
}

// receive stores e as current before broadcasting it.
func (c *cell[T]) receive(e T) {
	c.mu.Lock()
	c.seq++
	s := stamped[T]{seq: c.seq, value: e}
	c.current.Store(&s)
	c.mu.Unlock()

	c.feed.Send(s)
}

func (c *cell[T]) load() T {
	return c.current.Load().value
}

// stream replays the current value to each new subscriber, then relays
// live changes. The subscriber joins the feed before current is read, so a
// change racing the subscription is never lost.
func (c *cell[T]) stream() Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		sink := newCatchUp(observer)
		registration := c.feed.Subscribe(sink.live)
		sink.replay([]stamped[T]{*c.current.Load()})

		return NewDisposable(func() {
			sink.stop()
			registration.Dispose()
		})
	})
}

// Value is a read-only cell that tracks the latest element of a source
// stream.
//
// Current is updated before each element is broadcast, so observers reading
// Current from inside their callback see the new element. The source
// subscription is released by Dispose, or once the Value is garbage
// collected.
type Value[T any] struct {
	cell     *cell[T]
	upstream Disposable
}

// NewValue subscribes to source and starts tracking it from initial.
//
// Example:
//
//	status := ripple.NewValue(StatusUnknown, statusUpdates)
//	fmt.Println(status.Current())
func NewValue[T any](initial T, source Observable[T]) *Value[T] {
	c := newCell(initial)
	v := &Value[T]{
		cell:     c,
		upstream: source.Subscribe(c.receive),
	}
	DisposeWhenUnreachable(v, v.upstream)
	return v
}

// Current returns the latest value.
func (v *Value[T]) Current() T {
	return v.cell.load()
}

// Stream emits the current value on subscribe, followed by every change.
func (v *Value[T]) Stream() Observable[T] {
	return v.cell.stream()
}

// Dispose detaches the Value from its source. Current keeps the last value
// and Stream keeps replaying it.
func (v *Value[T]) Dispose() {
	v.upstream.Dispose()
}
