package ripple

import (
	"time"

	"github.com/zoobzio/pipz"
)

// Stage wraps a pipeline with reliability logic. Stages compose with
// Pipeline and feed Through.
type Stage[T any] func(pipz.Chainable[T]) pipz.Chainable[T]

var (
	retryStageID          = pipz.NewIdentity("ripple:retry", "Retries the wrapped pipeline immediately")
	backoffStageID        = pipz.NewIdentity("ripple:backoff", "Retries the wrapped pipeline with exponential backoff")
	timeoutStageID        = pipz.NewIdentity("ripple:timeout", "Bounds the wrapped pipeline by a deadline")
	fallbackStageID       = pipz.NewIdentity("ripple:fallback", "Tries alternatives when the wrapped pipeline fails")
	circuitBreakerStageID = pipz.NewIdentity("ripple:circuit-breaker", "Rejects work while the wrapped pipeline keeps failing")
	rateLimitStageID      = pipz.NewIdentity("ripple:rate-limit", "Paces work into the wrapped pipeline")
)

// Pipeline wraps terminal with each stage in order; the last stage is the
// outermost.
//
// Example:
//
//	apply := ripple.Pipeline(store,
//	    ripple.WithRetry[Config](3),
//	    ripple.WithTimeout[Config](time.Second),
//	)
//	results := ripple.Through(ctx, configs, apply)
func Pipeline[T any](terminal pipz.Chainable[T], stages ...Stage[T]) pipz.Chainable[T] {
	pipeline := terminal
	for _, stage := range stages {
		pipeline = stage(pipeline)
	}
	return pipeline
}

// WithRetry retries failed processing immediately, up to maxAttempts times
// in total.
func WithRetry[T any](maxAttempts int) Stage[T] {
	return func(p pipz.Chainable[T]) pipz.Chainable[T] {
		return pipz.NewRetry(retryStageID, p, maxAttempts)
	}
}

// WithBackoff retries failed processing with delays of baseDelay,
// 2*baseDelay, 4*baseDelay and so on.
func WithBackoff[T any](maxAttempts int, baseDelay time.Duration) Stage[T] {
	return func(p pipz.Chainable[T]) pipz.Chainable[T] {
		return pipz.NewBackoff(backoffStageID, p, maxAttempts, baseDelay)
	}
}

// WithTimeout fails processing that takes longer than d.
func WithTimeout[T any](d time.Duration) Stage[T] {
	return func(p pipz.Chainable[T]) pipz.Chainable[T] {
		return pipz.NewTimeout(timeoutStageID, p, d)
	}
}

// WithFallback tries each fallback in order when the pipeline fails.
func WithFallback[T any](fallbacks ...pipz.Chainable[T]) Stage[T] {
	return func(p pipz.Chainable[T]) pipz.Chainable[T] {
		all := append([]pipz.Chainable[T]{p}, fallbacks...)
		return pipz.NewFallback(fallbackStageID, all...)
	}
}

// WithCircuitBreaker opens after failures consecutive failures and rejects
// processing until recovery has passed.
func WithCircuitBreaker[T any](failures int, recovery time.Duration) Stage[T] {
	return func(p pipz.Chainable[T]) pipz.Chainable[T] {
		return pipz.NewCircuitBreaker(circuitBreakerStageID, p, failures, recovery)
	}
}

// WithRateLimit admits at most perSecond items into the pipeline, with bursts
// of up to burst. Items over the limit wait for a token.
func WithRateLimit[T any](perSecond float64, burst int) Stage[T] {
	return func(p pipz.Chainable[T]) pipz.Chainable[T] {
		return pipz.NewRateLimiter(rateLimitStageID, perSecond, burst, p)
	}
}
