package ripple

import (
	"iter"
	"runtime"
)

// Observer receives the elements of a stream.
type Observer[T any] func(T)

// Observable is a push-based stream of T.
//
// An Observable is an immutable subscription factory: every Subscribe call
// runs the subscription body again, independently of other subscriptions.
// Streams built from a Multicast share one execution instead.
//
// The zero Observable never emits.
type Observable[T any] struct {
	subscribe func(Observer[T]) Disposable
}

// New creates an Observable from a subscription body. The body receives the
// observer and returns the Disposable that tears the subscription down.
func New[T any](subscribe func(Observer[T]) Disposable) Observable[T] {
	return Observable[T]{subscribe: subscribe}
}

// Subscribe starts a new execution of the stream, delivering elements to
// observer. A nil observer discards elements.
func (o Observable[T]) Subscribe(observer Observer[T]) Disposable {
	if observer == nil {
		observer = func(T) {}
	}
	if o.subscribe == nil {
		return Empty()
	}
	d := o.subscribe(observer)
	if d == nil {
		return Empty()
	}
	return d
}

// Just emits a single element on subscribe.
func Just[T any](element T) Observable[T] {
	return From(element)
}

// From emits the given elements synchronously on subscribe.
func From[T any](elements ...T) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		for _, e := range elements {
			observer(e)
		}
		return Empty()
	})
}

// FromSeq emits every element of seq synchronously on subscribe.
func FromSeq[T any](seq iter.Seq[T]) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		for e := range seq {
			observer(e)
		}
		return Empty()
	})
}

// Never returns an Observable that never emits.
func Never[T any]() Observable[T] {
	return Observable[T]{}
}

// Defer calls factory on every subscribe and subscribes to its result.
func Defer[T any](factory func() Observable[T]) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		return factory().Subscribe(observer)
	})
}

// Retain keeps object reachable for as long as a subscription is live.
func (o Observable[T]) Retain(object any) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		d := o.Subscribe(observer)
		return NewDisposable(func() {
			d.Dispose()
			runtime.KeepAlive(object)
		})
	})
}
