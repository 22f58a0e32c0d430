package ripple

import (
	"context"

	"github.com/zoobzio/capitan"
)

// Retry unwraps a Result stream, resubscribing the whole upstream when a
// failure arrives.
//
// Up to count resubscriptions are made over the lifetime of the returned
// subscription. Successes are delivered unwrapped and failures are never
// delivered. A failure that arrives with no retries left releases the
// upstream and silently ends delivery; the RetryExhausted signal is the
// only trace of it.
//
// Example:
//
//	// Reconnect up to 3 times before giving up
//	payloads := ripple.Retry(ripple.FromWatcher(watcher), 3)
func Retry[T any](o Observable[Result[T]], count int) Observable[T] {
	if count < 0 {
		count = 0
	}

	return New(func(observer Observer[T]) Disposable {
		var (
			current  = &Serial{}
			attempts int
			stopped  bool
		)

		var subscribe func()
		subscribe = func() {
			attempt := NewDeferred()
			current.Set(attempt)

			attempt.Embed(o.Subscribe(func(r Result[T]) {
				if stopped || attempt.IsDisposed() {
					return
				}

				value, err := r.Get()
				if err == nil {
					observer(value)
					return
				}

				if attempts >= count {
					stopped = true
					attempt.Dispose()
					capitan.Emit(context.Background(), RetryExhausted,
						KeyAttempt.Field(attempts),
						KeyError.Field(err.Error()),
					)
					return
				}

				attempts++
				capitan.Emit(context.Background(), RetryAttempted,
					KeyAttempt.Field(attempts),
					KeyRemaining.Field(count-attempts),
					KeyError.Field(err.Error()),
				)
				subscribe()
			}))
		}
		subscribe()

		return current
	})
}
