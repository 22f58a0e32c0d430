// Package postgres provides a ripple.Watcher for PostgreSQL rows using
// LISTEN/NOTIFY with a backing table.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zoobzio/ripple"
)

// Defaults for the backing table layout.
const (
	DefaultTable       = "config"
	DefaultKeyColumn   = "key"
	DefaultValueColumn = "value"
)

// Watcher watches a table row for changes using LISTEN/NOTIFY.
// A trigger on the table must notify the channel with the row's key as
// payload:
//
//	CREATE OR REPLACE FUNCTION notify_config_change() RETURNS trigger AS $$
//	BEGIN
//	    PERFORM pg_notify('config_changed', NEW.key);
//	    RETURN NEW;
//	END;
//	$$ LANGUAGE plpgsql;
//
//	CREATE TRIGGER config_change_trigger
//	    AFTER INSERT OR UPDATE ON config
//	    FOR EACH ROW EXECUTE FUNCTION notify_config_change();
type Watcher struct {
	pool        *pgxpool.Pool
	channel     string
	key         string
	table       string
	keyColumn   string
	valueColumn string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithTable sets the table queried for values. Defaults to "config".
func WithTable(table string) Option {
	return func(w *Watcher) {
		w.table = table
	}
}

// WithColumns sets the key and value column names.
func WithColumns(key, value string) Option {
	return func(w *Watcher) {
		w.keyColumn = key
		w.valueColumn = value
	}
}

// New creates a Watcher for the given notification channel and row key.
func New(pool *pgxpool.Pool, channel, key string, opts ...Option) *Watcher {
	w := &Watcher{
		pool:        pool,
		channel:     channel,
		key:         key,
		table:       DefaultTable,
		keyColumn:   DefaultKeyColumn,
		valueColumn: DefaultValueColumn,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Observable returns the row's value as a stream of results.
func (w *Watcher) Observable() ripple.Observable[ripple.Result[[]byte]] {
	return ripple.FromWatcher(w)
}

// Query returns the statement used to read the row's value.
func (w *Watcher) Query() string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		pgx.Identifier{w.valueColumn}.Sanitize(),
		pgx.Identifier{w.table}.Sanitize(),
		pgx.Identifier{w.keyColumn}.Sanitize(),
	)
}

// Watch listens on the channel and returns a channel that emits the row's
// value whenever a notification names its key. The current value, if the
// row exists, is emitted first.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	_, err = conn.Exec(ctx, "LISTEN "+pgx.Identifier{w.channel}.Sanitize())
	if err != nil {
		conn.Release()
		return nil, fmt.Errorf("failed to listen on channel %s: %w", w.channel, err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer conn.Release()

		emit := func() bool {
			value, err := w.fetch(ctx)
			if err != nil || value == nil {
				return true
			}
			select {
			case out <- value:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}

		for {
			notification, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				continue
			}
			if notification.Payload != w.key {
				continue
			}
			if !emit() {
				return
			}
		}
	}()

	return out, nil
}

func (w *Watcher) fetch(ctx context.Context) ([]byte, error) {
	var value []byte
	err := w.pool.QueryRow(ctx, w.Query(), w.key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

var _ ripple.Watcher = (*Watcher)(nil)
