package ripple

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultDebounce is the default debounce window for changes after the
// first payload.
const DefaultDebounce = 100 * time.Millisecond

// ErrAlreadyStarted is returned by Start on a Capacitor that was already
// started.
var ErrAlreadyStarted = errors.New("capacitor already started")

// Health describes whether a Capacitor holds a usable value.
type Health int32

const (
	// HealthLoading indicates no payload has been processed yet.
	HealthLoading Health = iota

	// HealthHealthy indicates the latest payload was applied.
	HealthHealthy

	// HealthDegraded indicates the latest payload was rejected and an older
	// value is retained.
	HealthDegraded

	// HealthEmpty indicates every payload so far was rejected.
	HealthEmpty
)

// String returns the string representation of the health.
func (h Health) String() string {
	switch h {
	case HealthLoading:
		return "loading"
	case HealthHealthy:
		return "healthy"
	case HealthDegraded:
		return "degraded"
	case HealthEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// capacitorConfig holds configuration options for a Capacitor.
type capacitorConfig struct {
	debounce time.Duration
	clock    clockz.Clock
	codec    Codec
}

// CapacitorOption configures a Capacitor.
type CapacitorOption func(*capacitorConfig)

// WithDebounce sets the window in which later changes are coalesced.
// Zero or less disables debouncing.
func WithDebounce(d time.Duration) CapacitorOption {
	return func(c *capacitorConfig) {
		c.debounce = d
	}
}

// WithClock sets the clock driving the debounce window.
func WithClock(clock clockz.Clock) CapacitorOption {
	return func(c *capacitorConfig) {
		c.clock = clock
	}
}

// WithCodec sets the codec payloads are decoded with. Defaults to AutoCodec.
func WithCodec(codec Codec) CapacitorOption {
	return func(c *capacitorConfig) {
		c.codec = codec
	}
}

// Capacitor loads a typed value from a Watcher and keeps it current.
//
// Payloads are decoded, validated and handed to the apply callback. A
// rejected payload leaves the last applied value in place. The first
// payload is processed as soon as it arrives; later ones are debounced.
type Capacitor[T any] struct {
	watcher  Watcher
	apply    func(T) error
	debounce time.Duration
	clock    clockz.Clock
	codec    Codec

	mu        sync.Mutex
	health    Health
	current   T
	hasValue  bool
	lastError error
	started   bool
	sub       Disposable
	stop      func() bool

	applied *Variable[*T]
}

// NewCapacitor creates a Capacitor for a single watcher. apply may be nil.
//
// Example:
//
//	type Config struct {
//	    Port int `yaml:"port" validate:"min=1,max=65535"`
//	}
//
//	c := ripple.NewCapacitor[Config](file.New("config.yaml"), app.SetConfig)
//	if err := c.Start(ctx); err != nil {
//	    log.Printf("initial config rejected: %v", err)
//	}
func NewCapacitor[T any](watcher Watcher, apply func(T) error, opts ...CapacitorOption) *Capacitor[T] {
	cfg := &capacitorConfig{
		debounce: DefaultDebounce,
		clock:    clockz.RealClock,
		codec:    AutoCodec{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Capacitor[T]{
		watcher:  watcher,
		apply:    apply,
		debounce: cfg.debounce,
		clock:    cfg.clock,
		codec:    cfg.codec,
		health:   HealthLoading,
		applied:  NewVariable[*T](nil),
	}
}

// Health returns the current health of the Capacitor.
func (c *Capacitor[T]) Health() Health {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.health
}

// Current returns the last applied value and true, or the zero value and
// false if nothing has been applied.
func (c *Capacitor[T]) Current() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.hasValue
}

// LastError returns the error from the latest rejected payload, or nil once
// a payload has been applied since.
func (c *Capacitor[T]) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// Stream emits the last applied value on subscribe, if any, followed by
// every value applied afterwards.
func (c *Capacitor[T]) Stream() Observable[T] {
	return FilterMap(c.applied.Stream(), func(v *T) (T, bool) {
		if v == nil {
			var zero T
			return zero, false
		}
		return *v, true
	})
}

// Start begins watching. It blocks until the first payload has been
// processed and returns its error, if any. Watching continues in the
// background until ctx is cancelled or Stop is called, even when the first
// payload was rejected.
func (c *Capacitor[T]) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	c.mu.Unlock()

	capitan.Emit(ctx, CapacitorStarted,
		KeyDebounce.Field(c.debounce),
		KeyContentType.Field(c.codec.ContentType()),
	)

	first := make(chan error, 1)
	sub := c.subscribe(ctx, first)

	c.mu.Lock()
	c.sub = sub
	c.stop = context.AfterFunc(ctx, c.Stop)
	c.mu.Unlock()

	select {
	case err := <-first:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// subscribe wires the watcher through decoding and validation. The first
// result is processed inline and reported on first; later payloads pass
// through the debounce window.
func (c *Capacitor[T]) subscribe(ctx context.Context, first chan<- error) Disposable {
	later := NewMulticast[Result[[]byte]]()

	changes := later.Observable()
	if c.debounce > 0 {
		changes = changes.Debounce(c.debounce, c.clock)
	}

	rest := Validate(Decode[T](changes, c.codec)).Subscribe(func(r Result[T]) {
		_ = c.process(ctx, r) //nolint:errcheck // Errors stored via LastError
	})

	received := false
	upstream := FromWatcher(c.watcher).Subscribe(func(raw Result[[]byte]) {
		if received {
			later.Send(raw)
			return
		}
		received = true

		Validate(Decode[T](Just(raw), c.codec)).Subscribe(func(r Result[T]) {
			first <- c.process(ctx, r)
		})
	})

	return Composite(upstream, rest)
}

// Stop releases the watcher. It is safe to call more than once.
func (c *Capacitor[T]) Stop() {
	c.mu.Lock()
	sub := c.sub
	stop := c.stop
	c.sub = nil
	c.stop = nil
	health := c.health
	c.mu.Unlock()

	if sub == nil {
		return
	}
	if stop != nil {
		stop()
	}
	sub.Dispose()

	capitan.Emit(context.Background(), CapacitorStopped,
		KeyState.Field(health.String()),
	)
}

// process applies one decoded result and updates health.
func (c *Capacitor[T]) process(ctx context.Context, r Result[T]) error {
	value, err := r.Get()
	if err == nil && c.apply != nil {
		if applyErr := c.apply(value); applyErr != nil {
			capitan.Emit(ctx, CapacitorApplyFailed,
				KeyError.Field(applyErr.Error()),
			)
			err = fmt.Errorf("apply failed: %w", applyErr)
		}
	}

	c.mu.Lock()
	old := c.health
	if err != nil {
		c.lastError = err
		if c.hasValue {
			c.health = HealthDegraded
		} else {
			c.health = HealthEmpty
		}
	} else {
		c.current = value
		c.hasValue = true
		c.lastError = nil
		c.health = HealthHealthy
	}
	updated := c.health
	c.mu.Unlock()

	if old != updated {
		capitan.Emit(ctx, CapacitorStateChanged,
			KeyOldState.Field(old.String()),
			KeyNewState.Field(updated.String()),
		)
	}
	if err != nil {
		return err
	}

	capitan.Emit(ctx, CapacitorApplySucceeded)
	c.applied.Set(&value)
	return nil
}
