package ripple

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/zoobzio/capitan"
)

// compactThreshold is the minimum number of tombstones before the registry
// is compacted.
const compactThreshold = 16

// registration is one slot in the Multicast registry. Its address is the
// subscription's identity.
type registration[T any] struct {
	observer Observer[T]
	removed  atomic.Bool
}

// Multicast relays each sent element to every registered observer.
//
// Observers live in an arena of stable slots. Removal tombstones a slot and
// compaction copies live slots into a fresh backing array, so a broadcast in
// progress keeps iterating the snapshot it started with. Observers added
// during a broadcast do not receive the element being broadcast; observers
// removed during a broadcast are skipped.
type Multicast[T any] struct {
	mu         sync.Mutex
	slots      []*registration[T]
	active     int
	tombstones int
	metrics    MetricsProvider
}

// NewMulticast returns a Multicast with no observers.
//
// Example:
//
//	m := ripple.NewMulticast[string]()
//	d := m.Subscribe(func(s string) { fmt.Println(s) })
//	m.Send("hello")
//	d.Dispose()
func NewMulticast[T any]() *Multicast[T] {
	return &Multicast[T]{}
}

// Metrics sets a metrics provider. Must be called before use.
func (m *Multicast[T]) Metrics(provider MetricsProvider) *Multicast[T] {
	m.metrics = provider
	return m
}

// Subscribe registers observer under a fresh key. Disposing the result
// removes exactly that registration.
func (m *Multicast[T]) Subscribe(observer Observer[T]) Disposable {
	if observer == nil {
		observer = func(T) {}
	}
	r := &registration[T]{observer: observer}
	active := m.register(r)
	if m.metrics != nil {
		m.metrics.OnSubscribe(active)
	}

	return NewDisposable(func() {
		if r.removed.Swap(true) {
			return
		}
		active := m.unregister()
		if m.metrics != nil {
			m.metrics.OnDispose(active)
		}
	})
}

// Observable exposes the Multicast as a hot Observable.
func (m *Multicast[T]) Observable() Observable[T] {
	return New(m.Subscribe)
}

// Send delivers element synchronously to the observers registered when
// Send was called.
func (m *Multicast[T]) Send(element T) {
	m.mu.Lock()
	snapshot := m.slots
	m.mu.Unlock()

	recipients := 0
	for _, r := range snapshot {
		if r.removed.Load() {
			continue
		}
		r.observer(element)
		recipients++
	}

	if m.metrics != nil {
		m.metrics.OnBroadcast(recipients)
	}
}

// Count returns the number of registered observers.
func (m *Multicast[T]) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *Multicast[T]) register(r *registration[T]) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots = append(m.slots, r)
	m.active++
	return m.active
}

func (m *Multicast[T]) unregister() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.active--
	m.tombstones++
	if m.tombstones >= compactThreshold && m.tombstones > m.active {
		m.compact()
	}
	return m.active
}

// compact copies live slots into a new backing array. Callers hold m.mu.
func (m *Multicast[T]) compact() {
	live := make([]*registration[T], 0, m.active)
	for _, r := range m.slots {
		if !r.removed.Load() {
			live = append(live, r)
		}
	}
	m.slots = live
	m.tombstones = 0
}

// Connectable shares one upstream subscription among many observers.
//
// The upstream is connected by Start and released by Stop, independent of
// how many observers are registered. It is not reference counted.
type Connectable[T any] struct {
	source  Observable[T]
	feed    *Multicast[T]
	metrics MetricsProvider
	state   atomic.Int32

	mu       sync.Mutex
	upstream *Deferred
}

// Multicast wraps o in a Connectable. Nothing is subscribed until Start.
//
// Example:
//
//	shared := ticks.Multicast()
//	a := shared.Observable().Subscribe(render)
//	b := shared.Observable().Subscribe(record)
//	shared.Start()
func (o Observable[T]) Multicast() *Connectable[T] {
	c := &Connectable[T]{
		source: o,
		feed:   NewMulticast[T](),
	}
	c.state.Store(int32(StateIdle))
	return c
}

// Metrics sets a metrics provider for the Connectable and its registry.
// Must be called before Start.
func (c *Connectable[T]) Metrics(provider MetricsProvider) *Connectable[T] {
	c.metrics = provider
	c.feed.Metrics(provider)
	return c
}

// State returns the current connection state.
func (c *Connectable[T]) State() State {
	return State(c.state.Load())
}

// Observable returns the shared stream. Subscribing does not connect.
func (c *Connectable[T]) Observable() Observable[T] {
	return c.feed.Observable()
}

// Start subscribes upstream if not already connected.
func (c *Connectable[T]) Start() *Connectable[T] {
	c.mu.Lock()
	if c.upstream != nil {
		c.mu.Unlock()
		return c
	}
	upstream := NewDeferred()
	c.upstream = upstream
	c.mu.Unlock()

	c.transition(StateConnected)
	capitan.Emit(context.Background(), MulticastConnected,
		KeyObservers.Field(c.feed.Count()),
	)

	upstream.Embed(c.source.Subscribe(c.feed.Send))
	return c
}

// Stop releases the upstream subscription. Registered observers stay
// registered and receive elements again after the next Start.
func (c *Connectable[T]) Stop() *Connectable[T] {
	c.mu.Lock()
	upstream := c.upstream
	c.upstream = nil
	c.mu.Unlock()

	if upstream == nil {
		return c
	}

	upstream.Dispose()
	c.transition(StateStopped)
	capitan.Emit(context.Background(), MulticastDisconnected,
		KeyObservers.Field(c.feed.Count()),
	)
	return c
}

// Restart stops and starts again, resubscribing upstream.
func (c *Connectable[T]) Restart() *Connectable[T] {
	return c.Stop().Start()
}

// StartOnSubscribe returns the shared stream with a subscribe side effect:
// the observer is registered first and the Connectable is then started if it
// is not connected yet. Disposing does not stop the Connectable.
func (c *Connectable[T]) StartOnSubscribe() Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		d := c.feed.Subscribe(observer)
		c.Start()
		return d
	})
}

func (c *Connectable[T]) transition(to State) {
	from := State(c.state.Swap(int32(to)))
	if from == to {
		return
	}
	if c.metrics != nil {
		c.metrics.OnStateChange(from, to)
	}
}
