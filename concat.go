package ripple

import "slices"

// completableEvent is one notification from the live Completable in
// ConcatAll: an element, or its completion.
type completableEvent[T any] struct {
	element T
	done    bool
}

// ConcatAll plays Completables one after another, in arrival order.
//
// Arriving Completables are queued. Only the head of the queue is live; it
// is fed through a single Multicast slot and subscribed with SwitchToLatest,
// so starting the next one always releases the previous one. When the live
// Completable completes it is popped and the next queued one becomes live.
func ConcatAll[T any](source Observable[Completable[T]]) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		var pending []Completable[T]
		current := NewMulticast[Completable[T]]()

		events := Map(current.Observable(), func(c Completable[T]) Observable[completableEvent[T]] {
			return New(func(emit Observer[completableEvent[T]]) Disposable {
				return c.Subscribe(
					func(e T) { emit(completableEvent[T]{element: e}) },
					func() { emit(completableEvent[T]{done: true}) },
				)
			})
		})

		live := SwitchToLatest(events).Subscribe(func(ev completableEvent[T]) {
			if !ev.done {
				observer(ev.element)
				return
			}
			pending = pending[1:]
			if len(pending) > 0 {
				current.Send(pending[0])
			}
		})

		upstream := source.Subscribe(func(c Completable[T]) {
			pending = append(pending, c)
			if len(pending) == 1 {
				current.Send(c)
			}
		})

		return Composite(upstream, live)
	})
}

// Concat plays completables in order and completes once the last one has
// completed.
//
// Example:
//
//	steps := ripple.Concat(connect, handshake, sync)
//	steps.Subscribe(logProgress, func() { log.Println("ready") })
func Concat[T any](completables ...Completable[T]) Completable[T] {
	return NewCompletable(func(observer CompletableObserver[T]) Disposable {
		terminal := NewCompletable(func(inner CompletableObserver[T]) Disposable {
			inner.Complete()
			observer.Complete()
			return Empty()
		})

		queue := append(slices.Clone(completables), terminal)
		return ConcatAll(From(queue...)).Subscribe(observer.Element)
	})
}
