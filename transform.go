package ripple

// Indexed pairs an element with its zero-based position in a subscription.
type Indexed[T any] struct {
	Index   int
	Element T
}

// Map transforms every element with fn.
func Map[T, U any](o Observable[T], fn func(T) U) Observable[U] {
	return New(func(observer Observer[U]) Disposable {
		return o.Subscribe(func(e T) {
			observer(fn(e))
		})
	})
}

// FilterMap transforms every element with fn and drops those for which fn
// reports false.
func FilterMap[T, U any](o Observable[T], fn func(T) (U, bool)) Observable[U] {
	return New(func(observer Observer[U]) Disposable {
		return o.Subscribe(func(e T) {
			if u, ok := fn(e); ok {
				observer(u)
			}
		})
	})
}

// FilterNil drops nil pointers and dereferences the rest.
func FilterNil[T any](o Observable[*T]) Observable[T] {
	return FilterMap(o, func(e *T) (T, bool) {
		if e == nil {
			var zero T
			return zero, false
		}
		return *e, true
	})
}

// Enumerate pairs each element with its index. Each subscription counts
// from zero.
func Enumerate[T any](o Observable[T]) Observable[Indexed[T]] {
	return New(func(observer Observer[Indexed[T]]) Disposable {
		index := 0
		return o.Subscribe(func(e T) {
			i := index
			index++
			observer(Indexed[T]{Index: i, Element: e})
		})
	})
}

// StartWith emits element before subscribing upstream.
func (o Observable[T]) StartWith(element T) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		observer(element)
		return o.Subscribe(observer)
	})
}

// StartWithFunc emits the result of fn before subscribing upstream.
// fn is evaluated on every subscribe.
func (o Observable[T]) StartWithFunc(fn func() T) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		observer(fn())
		return o.Subscribe(observer)
	})
}
