package ripple

// SwitchToLatest flattens a stream of streams, keeping only the newest inner
// subscription alive.
//
// Each new inner Observable disposes the previous inner subscription before
// it is subscribed, so at most one inner subscription is live and nothing
// from a replaced inner is delivered afterwards. Disposing the result
// disposes the upstream and the live inner subscription.
func SwitchToLatest[T any](source Observable[Observable[T]]) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		latest := &Serial{}

		upstream := source.Subscribe(func(inner Observable[T]) {
			slot := NewDeferred()
			latest.Set(slot)
			slot.Embed(inner.Subscribe(func(e T) {
				if slot.IsDisposed() {
					return
				}
				observer(e)
			}))
		})

		return Composite(upstream, latest)
	})
}

// MergeAll flattens a stream of streams, subscribing to every inner
// Observable as it arrives. Inner subscriptions never cancel each other;
// disposing the result disposes all of them and the upstream.
func MergeAll[T any](source Observable[Observable[T]]) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		bag := NewBag()
		deliver := func(e T) {
			if bag.IsDisposed() {
				return
			}
			observer(e)
		}

		bag.Add(source.Subscribe(func(inner Observable[T]) {
			bag.Add(inner.Subscribe(deliver))
		}))

		return bag
	})
}

// Merge subscribes to every observable and delivers their elements as they
// arrive.
//
// Example:
//
//	all := ripple.Merge(clicks, keys, timers)
func Merge[T any](observables ...Observable[T]) Observable[T] {
	return MergeAll(From(observables...))
}
