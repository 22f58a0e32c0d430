package ripple

import (
	"context"
	"fmt"

	"github.com/zoobzio/capitan"
)

// Watcher observes a source for changes and emits raw bytes on a channel.
// Implementations must emit the current value immediately upon Watch being
// called so subscribers start from a known state.
type Watcher interface {
	// Watch begins observing the source and returns a channel that emits
	// raw bytes when changes occur. The channel is closed when the context
	// is canceled or an unrecoverable error occurs.
	Watch(ctx context.Context) (<-chan []byte, error)
}

// FromWatcher adapts a Watcher into an Observable.
//
// Each subscription calls Watch with its own context and forwards payloads
// as successes from a background goroutine. If Watch fails, a single failure
// is delivered, which lets Retry resubscribe. Disposing cancels the context
// passed to Watch.
//
// Example:
//
//	w := file.New("/etc/app/config.yaml")
//	configs := ripple.Decode[Config](ripple.FromWatcher(w), ripple.YAMLCodec{})
func FromWatcher(w Watcher) Observable[Result[[]byte]] {
	watcherType := fmt.Sprintf("%T", w)

	return New(func(observer Observer[Result[[]byte]]) Disposable {
		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			changes, err := w.Watch(ctx)
			if err != nil {
				capitan.Emit(ctx, WatcherFailed,
					KeyWatcherType.Field(watcherType),
					KeyError.Field(err.Error()),
				)
				if ctx.Err() == nil {
					observer(Failure[[]byte](fmt.Errorf("watch: %w", err)))
				}
				return
			}

			capitan.Emit(ctx, WatcherStarted,
				KeyWatcherType.Field(watcherType),
			)
			defer capitan.Emit(context.Background(), WatcherStopped,
				KeyWatcherType.Field(watcherType),
			)

			for {
				select {
				case <-ctx.Done():
					return
				case raw, ok := <-changes:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}
					observer(Success(raw))
				}
			}
		}()

		return NewDisposable(cancel)
	})
}
