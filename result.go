package ripple

import "errors"

var errNilFailure = errors.New("ripple: failure without error")

// Result carries either a value or the error that prevented producing one.
// Streams have no failure channel of their own; operators such as Retry
// interpret this tag.
type Result[T any] struct {
	value T
	err   error
}

// Success wraps a value.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Failure wraps an error. A nil err still produces a failed Result.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = errNilFailure
	}
	return Result[T]{err: err}
}

// Get returns the value and the error.
func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}

// Value returns the value, or the zero value for a failure.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the error, or nil for a success.
func (r Result[T]) Err() error {
	return r.err
}

// IsFailure reports whether r holds an error.
func (r Result[T]) IsFailure() bool {
	return r.err != nil
}

// Values unwraps successes and drops failures.
func Values[T any](o Observable[Result[T]]) Observable[T] {
	return FilterMap(o, func(r Result[T]) (T, bool) {
		return r.value, r.err == nil
	})
}
