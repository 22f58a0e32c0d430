// Package testing provides test utilities and helpers for ripple streams.
package testing

import (
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/ripple"
)

// TestConfig is a standard configuration type for decode and validation
// tests.
type TestConfig struct {
	Port    int    `yaml:"port" json:"port" validate:"min=1,max=65535"`
	Host    string `yaml:"host" json:"host" validate:"required"`
	Timeout int    `yaml:"timeout" json:"timeout" validate:"gte=0"`
}

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// Recorder collects every element delivered to its Observer.
// It is safe to use from the goroutines that asynchronous sources deliver on.
type Recorder[T any] struct {
	mu     sync.Mutex
	values []T
}

// NewRecorder creates an empty Recorder.
func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{}
}

// Observer returns the function to subscribe with.
func (r *Recorder[T]) Observer() ripple.Observer[T] {
	return func(v T) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.values = append(r.values, v)
	}
}

// Values returns a copy of the recorded elements in delivery order.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.values)
}

// Len returns the number of recorded elements.
func (r *Recorder[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Last returns the most recent element, or false if none was recorded.
func (r *Recorder[T]) Last() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		var zero T
		return zero, false
	}
	return r.values[len(r.values)-1], true
}

// Record subscribes a new Recorder to o. Disposal is registered with
// t.Cleanup.
func Record[T any](t *testing.T, o ripple.Observable[T]) *Recorder[T] {
	t.Helper()
	r := NewRecorder[T]()
	d := o.Subscribe(r.Observer())
	t.Cleanup(d.Dispose)
	return r
}

// WaitForLen waits until r holds at least n elements or timeout occurs.
func WaitForLen[T any](t *testing.T, r *Recorder[T], n int, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return r.Len() >= n
	})
}

// RequireValues fails the test immediately if r does not hold exactly want.
func RequireValues[T comparable](t *testing.T, r *Recorder[T], want ...T) {
	t.Helper()
	if got := r.Values(); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
