package ripple

// CompletableObserver is the sink pair handed to a Completable's body.
type CompletableObserver[T any] struct {
	// Element delivers one element downstream.
	Element func(T)

	// Complete ends the subscription. Elements sent afterwards are dropped.
	Complete func()
}

// Completable is an Observable that can signal it has finished.
//
// Once Complete fires, the subscription is disposed and further elements
// from the body are dropped, even if the body keeps emitting.
type Completable[T any] struct {
	subscribe func(CompletableObserver[T]) Disposable
}

// NewCompletable creates a Completable from a subscription body.
func NewCompletable[T any](subscribe func(CompletableObserver[T]) Disposable) Completable[T] {
	return Completable[T]{subscribe: subscribe}
}

// Subscribe starts the Completable. onComplete fires at most once, and never
// after the returned Disposable was disposed by the caller.
func (c Completable[T]) Subscribe(onElement func(T), onComplete func()) Disposable {
	if onElement == nil {
		onElement = func(T) {}
	}
	if onComplete == nil {
		onComplete = func() {}
	}
	if c.subscribe == nil {
		return Empty()
	}

	return Single(func(h *SingleHandle) Disposable {
		return c.subscribe(CompletableObserver[T]{
			Element: func(e T) {
				if h.IsDisposed() {
					return
				}
				onElement(e)
			},
			Complete: func() {
				if h.IsDisposed() {
					return
				}
				h.Dispose()
				onComplete()
			},
		})
	})
}

// Completed returns a Completable that completes immediately.
func Completed[T any]() Completable[T] {
	return NewCompletable(func(observer CompletableObserver[T]) Disposable {
		observer.Complete()
		return Empty()
	})
}

// NeverCompletes returns a Completable that neither emits nor completes.
func NeverCompletes[T any]() Completable[T] {
	return NewCompletable(func(CompletableObserver[T]) Disposable {
		return Empty()
	})
}

// Elements drops the completion signal.
func (c Completable[T]) Elements() Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		return c.Subscribe(observer, nil)
	})
}

// Completion emits once when c completes and drops the elements.
func (c Completable[T]) Completion() Observable[struct{}] {
	return New(func(observer Observer[struct{}]) Disposable {
		return c.Subscribe(nil, func() {
			observer(struct{}{})
		})
	})
}

// MapElements rewrites the element stream of c with transform while keeping
// its completion.
func MapElements[T, U any](c Completable[T], transform func(Observable[T]) Observable[U]) Completable[U] {
	return NewCompletable(func(observer CompletableObserver[U]) Disposable {
		elements := NewMulticast[T]()
		transformed := transform(elements.Observable()).Subscribe(observer.Element)

		return Composite(
			transformed,
			c.Subscribe(elements.Send, observer.Complete),
		)
	})
}

// AsCompletable turns o into a Completable that never completes on its own.
// Its completion is tied to disposal of the subscription itself, which the
// caller initiates, so onComplete is never observed by that caller.
func (o Observable[T]) AsCompletable() Completable[T] {
	return NewCompletable(func(observer CompletableObserver[T]) Disposable {
		return Composite(
			o.Subscribe(observer.Element),
			NewDisposable(observer.Complete),
		)
	})
}

// CompleteWhen forwards each element and completes right after the first
// element for which shouldComplete returns true.
//
// Example:
//
//	untilReady := states.CompleteWhen(func(s Status) bool {
//	    return s == StatusReady
//	})
func (o Observable[T]) CompleteWhen(shouldComplete func(T) bool) Completable[T] {
	return NewCompletable(func(observer CompletableObserver[T]) Disposable {
		return o.Subscribe(func(e T) {
			observer.Element(e)
			if shouldComplete(e) {
				observer.Complete()
			}
		})
	})
}
