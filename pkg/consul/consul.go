// Package consul provides a ripple.Watcher for Consul KV keys using
// blocking queries.
package consul

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/consul/api"
	"github.com/zoobzio/clockz"

	"github.com/zoobzio/ripple"
)

// DefaultRetryInterval is how long the watcher waits after a failed query.
const DefaultRetryInterval = time.Second

// Watcher watches a Consul KV key for changes using blocking queries.
type Watcher struct {
	client        *api.Client
	key           string
	datacenter    string
	waitTime      time.Duration
	retryInterval time.Duration
	clock         clockz.Clock
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDatacenter queries the given datacenter instead of the agent's own.
func WithDatacenter(dc string) Option {
	return func(w *Watcher) {
		w.datacenter = dc
	}
}

// WithWaitTime caps how long a single blocking query may wait.
// Zero leaves the server default.
func WithWaitTime(d time.Duration) Option {
	return func(w *Watcher) {
		w.waitTime = d
	}
}

// WithRetryInterval sets the pause after a failed query.
func WithRetryInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.retryInterval = d
	}
}

// WithClock sets the clock used for retry pauses.
func WithClock(clock clockz.Clock) Option {
	return func(w *Watcher) {
		w.clock = clock
	}
}

// New creates a Watcher for the given Consul KV key.
func New(client *api.Client, key string, opts ...Option) *Watcher {
	w := &Watcher{
		client:        client,
		key:           key,
		retryInterval: DefaultRetryInterval,
		clock:         clockz.RealClock,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Observable returns the key's value as a stream of results.
func (w *Watcher) Observable() ripple.Observable[ripple.Result[[]byte]] {
	return ripple.FromWatcher(w)
}

func (w *Watcher) query(ctx context.Context, index uint64) *api.QueryOptions {
	opts := &api.QueryOptions{
		Datacenter: w.datacenter,
		WaitIndex:  index,
		WaitTime:   w.waitTime,
	}
	return opts.WithContext(ctx)
}

// Watch begins watching the key and returns a channel that emits its value
// whenever it changes. The current value, if any, is emitted first.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	kv := w.client.KV()

	pair, meta, err := kv.Get(w.key, w.query(ctx, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to get initial value: %w", err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)

		lastIndex := meta.LastIndex

		if pair != nil {
			select {
			case out <- pair.Value:
			case <-ctx.Done():
				return
			}
		}

		for ctx.Err() == nil {
			pair, meta, err := kv.Get(w.key, w.query(ctx, lastIndex))
			if err != nil {
				if !w.pause(ctx) {
					return
				}
				continue
			}

			// An index going backwards means the raft state was reset.
			if meta.LastIndex < lastIndex {
				lastIndex = 0
				continue
			}
			if meta.LastIndex == lastIndex {
				continue
			}
			lastIndex = meta.LastIndex

			if pair == nil {
				continue
			}
			select {
			case out <- pair.Value:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// pause waits out the retry interval. It returns false if ctx ended first.
func (w *Watcher) pause(ctx context.Context) bool {
	timer := w.clock.NewTimer(w.retryInterval)
	defer timer.Stop()

	select {
	case <-timer.C():
		return true
	case <-ctx.Done():
		return false
	}
}

var _ ripple.Watcher = (*Watcher)(nil)
