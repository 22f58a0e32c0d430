// Package etcd provides a ripple.Watcher for etcd keys using the native
// Watch API.
package etcd

import (
	"context"
	"fmt"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/zoobzio/ripple"
)

// Watcher watches an etcd key, or every key under a prefix, for changes.
type Watcher struct {
	client *clientv3.Client
	key    string
	prefix bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithPrefix treats the key as a prefix. Every key under it is emitted as
// it changes.
func WithPrefix() Option {
	return func(w *Watcher) {
		w.prefix = true
	}
}

// New creates a Watcher for the given etcd key.
func New(client *clientv3.Client, key string, opts ...Option) *Watcher {
	w := &Watcher{
		client: client,
		key:    key,
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

func (w *Watcher) opOptions() []clientv3.OpOption {
	if w.prefix {
		return []clientv3.OpOption{clientv3.WithPrefix()}
	}
	return nil
}

// Watch begins watching and returns a channel that emits values as they
// change. Current values are emitted first.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	resp, err := w.client.Get(ctx, w.key, w.opOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to get initial value: %w", err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)

		for _, kv := range resp.Kvs {
			select {
			case out <- kv.Value:
			case <-ctx.Done():
				return
			}
		}

		opts := append(w.opOptions(), clientv3.WithRev(resp.Header.Revision+1))
		watchChan := w.client.Watch(ctx, w.key, opts...)

		for {
			select {
			case <-ctx.Done():
				return
			case watchResp, ok := <-watchChan:
				if !ok {
					return
				}
				if watchResp.Err() != nil {
					continue
				}

				for _, event := range watchResp.Events {
					if event.Type != clientv3.EventTypePut {
						continue
					}
					select {
					case out <- event.Kv.Value:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return out, nil
}

var _ ripple.Watcher = (*Watcher)(nil)
