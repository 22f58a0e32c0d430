package ripple

// Filter delivers only the elements for which predicate returns true.
//
// Example:
//
//	evens := ripple.From(1, 2, 3, 4).Filter(func(n int) bool {
//	    return n%2 == 0
//	})
func (o Observable[T]) Filter(predicate func(T) bool) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		return o.Subscribe(func(e T) {
			if predicate(e) {
				observer(e)
			}
		})
	})
}

// Skip drops the first n elements of each subscription.
func (o Observable[T]) Skip(n int) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		remaining := n
		return o.Subscribe(func(e T) {
			if remaining > 0 {
				remaining--
				return
			}
			observer(e)
		})
	})
}

// SkipFirst drops the first element of each subscription.
func (o Observable[T]) SkipFirst() Observable[T] {
	return o.Skip(1)
}

// Prefix delivers at most n elements.
//
// With disposeOnFinish set, the upstream subscription is released right
// after the n-th element, so the source stops doing work even while the
// downstream subscription is still held.
func (o Observable[T]) Prefix(n int, disposeOnFinish bool) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		remaining := n
		upstream := NewDeferred()
		if remaining <= 0 && disposeOnFinish {
			upstream.Dispose()
		}

		upstream.Embed(o.Subscribe(func(e T) {
			if remaining <= 0 {
				return
			}
			remaining--

			observer(e)

			if remaining == 0 && disposeOnFinish {
				upstream.Dispose()
			}
		}))

		return upstream
	})
}

// First delivers only the first element. See Prefix for disposeOnFinish.
func (o Observable[T]) First(disposeOnFinish bool) Observable[T] {
	return o.Prefix(1, disposeOnFinish)
}

// RemoveDuplicates drops an element when isDuplicate reports it equal to the
// element delivered immediately before it. The first element is always
// delivered.
func (o Observable[T]) RemoveDuplicates(isDuplicate func(previous, current T) bool) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		var (
			last    T
			hasLast bool
		)
		return o.Subscribe(func(e T) {
			if hasLast && isDuplicate(last, e) {
				return
			}
			last, hasLast = e, true
			observer(e)
		})
	})
}

// RemoveDuplicatesBy drops consecutive elements whose keys are equal.
func RemoveDuplicatesBy[T any, K comparable](o Observable[T], key func(T) K) Observable[T] {
	return o.RemoveDuplicates(func(previous, current T) bool {
		return key(previous) == key(current)
	})
}

// Distinct drops consecutive equal elements.
func Distinct[T comparable](o Observable[T]) Observable[T] {
	return o.RemoveDuplicates(func(previous, current T) bool {
		return previous == current
	})
}
