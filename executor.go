package ripple

import "sync/atomic"

// Executor schedules actions for later execution.
// Implementations run actions in submission order.
type Executor interface {
	Submit(action func())
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(action func())

// Submit calls f(action).
func (f ExecutorFunc) Submit(action func()) {
	f(action)
}

// Immediate runs every action inline, on the submitting goroutine.
var Immediate Executor = ExecutorFunc(func(action func()) {
	action()
})

// ObserveOn delivers elements through exec instead of on the producer's
// goroutine. Deliveries still queued when the subscription is disposed are
// dropped.
//
// Example:
//
//	queue := ripple.NewQueue()
//	defer queue.Close(ctx)
//	updates.ObserveOn(queue).Subscribe(render)
func (o Observable[T]) ObserveOn(exec Executor) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		var disposed atomic.Bool
		upstream := o.Subscribe(func(e T) {
			exec.Submit(func() {
				if disposed.Load() {
					return
				}
				observer(e)
			})
		})

		return NewDisposable(func() {
			disposed.Store(true)
			upstream.Dispose()
		})
	})
}

// SubscribeOn performs the upstream subscribe call through exec.
// Disposing before exec gets to it cancels the subscription outright.
func (o Observable[T]) SubscribeOn(exec Executor) Observable[T] {
	return New(func(observer Observer[T]) Disposable {
		upstream := NewDeferred()
		exec.Submit(func() {
			if upstream.IsDisposed() {
				return
			}
			upstream.Embed(o.Subscribe(func(e T) {
				if upstream.IsDisposed() {
					return
				}
				observer(e)
			}))
		})
		return upstream
	})
}
