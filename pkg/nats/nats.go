// Package nats provides a ripple.Watcher for NATS JetStream KV keys.
package nats

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/zoobzio/ripple"
)

// Watcher watches a NATS KV key for changes using the Watch API.
type Watcher struct {
	kv          jetstream.KeyValue
	key         string
	updatesOnly bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithUpdatesOnly skips the current value and emits only later changes.
func WithUpdatesOnly() Option {
	return func(w *Watcher) {
		w.updatesOnly = true
	}
}

// New creates a Watcher for the given NATS KV key. The key may contain
// NATS wildcards.
func New(kv jetstream.KeyValue, key string, opts ...Option) *Watcher {
	w := &Watcher{
		kv:  kv,
		key: key,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Observable returns the key's values as a stream of results.
func (w *Watcher) Observable() ripple.Observable[ripple.Result[[]byte]] {
	return ripple.FromWatcher(w)
}

// Watch begins watching the key and returns a channel that emits its value
// whenever it changes. Deletes and purges are skipped.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	var opts []jetstream.WatchOpt
	if w.updatesOnly {
		opts = append(opts, jetstream.UpdatesOnly())
	}

	watcher, err := w.kv.Watch(ctx, w.key, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to watch key: %w", err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer watcher.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-watcher.Updates():
				if !ok {
					return
				}
				// A nil entry marks the end of the initial values.
				if entry == nil {
					continue
				}
				switch entry.Operation() {
				case jetstream.KeyValueDelete, jetstream.KeyValuePurge:
					continue
				}

				select {
				case out <- entry.Value():
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

var _ ripple.Watcher = (*Watcher)(nil)
