// Package zookeeper provides a ripple.Watcher for ZooKeeper nodes using
// one-shot watches.
package zookeeper

import (
	"context"
	"errors"
	"time"

	"github.com/go-zookeeper/zk"
	"github.com/zoobzio/clockz"

	"github.com/zoobzio/ripple"
)

// DefaultRetryInterval is how long the watcher waits after a failed read.
const DefaultRetryInterval = time.Second

// Watcher watches a ZooKeeper node for changes.
type Watcher struct {
	conn          *zk.Conn
	path          string
	retryInterval time.Duration
	clock         clockz.Clock
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithRetryInterval sets the pause after a failed read.
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

// New creates a Watcher for the given ZooKeeper path.
func New(conn *zk.Conn, path string, opts ...Option) *Watcher {
	w := &Watcher{
		conn:          conn,
		path:          path,
		retryInterval: DefaultRetryInterval,
		clock:         clockz.RealClock,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Observable returns the node's data as a stream of results.
func (w *Watcher) Observable() ripple.Observable[ripple.Result[[]byte]] {
	return ripple.FromWatcher(w)
}

// Watch begins watching the node and returns a channel that emits its data
// whenever it changes. The current data is emitted first. A missing node
// is waited for rather than reported.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	out := make(chan []byte)

	go func() {
		defer close(out)

		for ctx.Err() == nil {
			data, _, events, err := w.conn.GetW(w.path)
			if errors.Is(err, zk.ErrNoNode) {
				if !w.awaitCreate(ctx) {
					return
				}
				continue
			}
			if err != nil {
				if !w.pause(ctx) {
					return
				}
				continue
			}

			select {
			case out <- data:
			case <-ctx.Done():
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-events:
			}
		}
	}()

	return out, nil
}

// awaitCreate blocks until the node may exist again. It returns false if
// ctx ended first.
func (w *Watcher) awaitCreate(ctx context.Context) bool {
	exists, _, events, err := w.conn.ExistsW(w.path)
	if err != nil {
		return w.pause(ctx)
	}
	if exists {
		return true
	}

	select {
	case <-events:
		return true
	case <-ctx.Done():
		return false
	}
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
