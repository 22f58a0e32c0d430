// Package redis provides a ripple.Watcher for Redis keys using keyspace
// notifications.
package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/zoobzio/ripple"
)

// DefaultEvents are the keyspace events that trigger a reload.
var DefaultEvents = []string{"set", "hset", "mset", "setex", "psetex", "setnx"}

// Watcher watches a Redis key for changes using keyspace notifications.
// Requires Redis to have keyspace notifications enabled:
//
//	CONFIG SET notify-keyspace-events KEA
type Watcher struct {
	client *redis.Client
	key    string
	db     int
	events []string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDB sets the logical database whose keyspace channel is subscribed.
// It must match the database the client is connected to.
func WithDB(db int) Option {
	return func(w *Watcher) {
		w.db = db
	}
}

// WithEvents sets the keyspace events that trigger a reload.
func WithEvents(events ...string) Option {
	return func(w *Watcher) {
		w.events = events
	}
}

// New creates a Watcher for the given Redis key.
func New(client *redis.Client, key string, opts ...Option) *Watcher {
	w := &Watcher{
		client: client,
		key:    key,
		events: DefaultEvents,
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

// Channel returns the keyspace notification channel for the watched key.
func (w *Watcher) Channel() string {
	return fmt.Sprintf("__keyspace@%d__:%s", w.db, w.key)
}

// Watch begins watching the key and returns a channel that emits its value
// whenever it changes. The current value, if any, is emitted first.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	pubsub := w.client.Subscribe(ctx, w.Channel())

	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to keyspace notifications: %w", err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer pubsub.Close()

		val, err := w.client.Get(ctx, w.key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return
		default:
			select {
			case out <- val:
			case <-ctx.Done():
				return
			}
		}

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if !slices.Contains(w.events, msg.Payload) {
					continue
				}
				val, err := w.client.Get(ctx, w.key).Bytes()
				if err != nil {
					continue
				}
				select {
				case out <- val:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

var _ ripple.Watcher = (*Watcher)(nil)
