package ripple

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// Debounce emits an element only after d has passed without a newer one.
//
// Elements are delivered from a background goroutine driven by clock; pass
// clockz.RealClock in production and a clockz.FakeClock in tests. A nil
// clock means clockz.RealClock. Disposing drops any pending element.
//
// Receiving an element never waits on the delivering goroutine, so an
// observer may feed its own upstream.
//
// Example:
//
//	saves := edits.Debounce(500*time.Millisecond, clockz.RealClock)
func (o Observable[T]) Debounce(d time.Duration, clock clockz.Clock) Observable[T] {
	if clock == nil {
		clock = clockz.RealClock
	}

	return New(func(observer Observer[T]) Disposable {
		ctx, cancel := context.WithCancel(context.Background())
		slot := newLatest[T]()

		go debounce(ctx, slot, d, clock, func(e T) {
			if ctx.Err() != nil {
				return
			}
			observer(e)
		})

		upstream := o.Subscribe(slot.put)

		return NewDisposable(func() {
			cancel()
			upstream.Dispose()
		})
	})
}

// latest holds the newest element not yet delivered. wake carries at most
// one pending notification.
type latest[T any] struct {
	mu    sync.Mutex
	value T
	ok    bool
	wake  chan struct{}
}

func newLatest[T any]() *latest[T] {
	return &latest[T]{wake: make(chan struct{}, 1)}
}

func (l *latest[T]) put(e T) {
	l.mu.Lock()
	l.value, l.ok = e, true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *latest[T]) take() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero T
	e, ok := l.value, l.ok
	l.value, l.ok = zero, false
	return e, ok
}

func debounce[T any](ctx context.Context, slot *latest[T], d time.Duration, clock clockz.Clock, emit func(T)) {
	var timer clockz.Timer

	arm := func() {
		if timer == nil {
			timer = clock.NewTimer(d)
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C():
			default:
			}
		}
		timer.Reset(d)
	}

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case <-slot.wake:
			arm()

		case <-timerC:
			// A newer element arrived as the timer fired; restart the window.
			select {
			case <-slot.wake:
				arm()
				continue
			default:
			}

			if e, ok := slot.take(); ok {
				emit(e)
			}
		}
	}
}
