package ripple

import (
	"sync"
	"sync/atomic"
)

// Disposable releases whatever a subscription holds on to.
// Implementations must tolerate Dispose being called more than once.
type Disposable interface {
	Dispose()
}

// Action is a Disposable wrapping a single release function.
// The function fires at most once, after which the Action drops its
// reference to it so captured state can be collected.
type Action struct {
	action atomic.Pointer[func()]
}

// NewDisposable returns an Action that runs fn on the first Dispose call.
// A nil fn produces an Action that does nothing.
func NewDisposable(fn func()) *Action {
	a := &Action{}
	if fn == nil {
		fn = func() {}
	}
	a.action.Store(&fn)
	return a
}

// Empty returns a Disposable with no release action.
func Empty() *Action {
	return NewDisposable(nil)
}

// Dispose fires the release action if it has not fired yet.
// The action is detached before it runs, so re-entrant calls are no-ops.
func (a *Action) Dispose() {
	if a == nil {
		return
	}
	if fn := a.action.Swap(nil); fn != nil {
		(*fn)()
	}
}

// Disposed reports whether Dispose has been called.
func (a *Action) Disposed() bool {
	return a == nil || a.action.Load() == nil
}

// Composite returns a Disposable that disposes every member in order.
// Nil members are skipped.
func Composite(disposables ...Disposable) *Action {
	return NewDisposable(func() {
		for _, d := range disposables {
			if d != nil {
				d.Dispose()
			}
		}
	})
}

// SingleHandle lets a subscription body cancel itself.
// It is handed to the body passed to Single.
type SingleHandle struct {
	mu       sync.Mutex
	disposed bool
	source   Disposable
}

// Dispose marks the handle disposed and releases the source subscription.
// When called while the body is still running, the source is released as
// soon as the body returns it.
func (h *SingleHandle) Dispose() {
	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		return
	}
	h.disposed = true
	source := h.source
	h.source = nil
	h.mu.Unlock()

	if source != nil {
		source.Dispose()
	}
}

// IsDisposed reports whether the handle has been disposed.
func (h *SingleHandle) IsDisposed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.disposed
}

// Single runs body with a handle that can dispose the subscription body
// returns, including from inside its own callbacks.
//
// The handle owns exactly one subscription: the one body returns. Using the
// same handle for anything else is a programming error.
func Single(body func(h *SingleHandle) Disposable) Disposable {
	h := &SingleHandle{}
	source := body(h)

	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		if source != nil {
			source.Dispose()
		}
		return h
	}
	h.source = source
	h.mu.Unlock()

	return h
}

// Deferred is a disposal slot that can be filled after it was handed out.
//
// Embed attaches a Disposable while the slot is live, or disposes it
// immediately when the slot was already disposed. Disposed-ness is checked
// once, synchronously, at embed time.
type Deferred struct {
	mu       sync.Mutex
	disposed bool
	embedded []Disposable
}

// NewDeferred returns an empty, live Deferred.
func NewDeferred() *Deferred {
	return &Deferred{}
}

// Embed attaches d to the slot, or disposes it if the slot is already disposed.
func (d *Deferred) Embed(disposable Disposable) {
	if disposable == nil {
		return
	}
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		disposable.Dispose()
		return
	}
	d.embedded = append(d.embedded, disposable)
	d.mu.Unlock()
}

// Dispose releases everything embedded so far and every later embed.
func (d *Deferred) Dispose() {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		return
	}
	d.disposed = true
	embedded := d.embedded
	d.embedded = nil
	d.mu.Unlock()

	for _, e := range embedded {
		e.Dispose()
	}
}

// IsDisposed reports whether the slot has been disposed.
func (d *Deferred) IsDisposed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disposed
}

// Serial holds one replaceable Disposable.
// Set disposes the previous occupant; after Dispose every Set disposes its
// argument immediately.
type Serial struct {
	mu       sync.Mutex
	disposed bool
	current  Disposable
}

// Set replaces the current Disposable, disposing the previous one.
func (s *Serial) Set(d Disposable) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		if d != nil {
			d.Dispose()
		}
		return
	}
	previous := s.current
	s.current = d
	s.mu.Unlock()

	if previous != nil {
		previous.Dispose()
	}
}

// Dispose releases the current Disposable and closes the slot.
func (s *Serial) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	current := s.current
	s.current = nil
	s.mu.Unlock()

	if current != nil {
		current.Dispose()
	}
}

// Bag collects Disposables owned by one scope and releases them together.
// Owners call Dispose on their own shutdown path.
type Bag struct {
	mu       sync.Mutex
	disposed bool
	items    []Disposable
}

// NewBag returns an empty Bag.
func NewBag() *Bag {
	return &Bag{}
}

// Add puts d in the bag. If the bag was already disposed, d is disposed now.
func (b *Bag) Add(d Disposable) {
	if d == nil {
		return
	}
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		d.Dispose()
		return
	}
	b.items = append(b.items, d)
	b.mu.Unlock()
}

// Len returns the number of Disposables held.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// IsDisposed reports whether the bag has been disposed.
func (b *Bag) IsDisposed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disposed
}

// Dispose releases every held Disposable in insertion order.
func (b *Bag) Dispose() {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return
	}
	b.disposed = true
	items := b.items
	b.items = nil
	b.mu.Unlock()

	for _, d := range items {
		d.Dispose()
	}
}
