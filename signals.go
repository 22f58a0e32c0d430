package ripple

import "github.com/zoobzio/capitan"

// Connectable lifecycle signals.
var (
	// MulticastConnected is emitted when a Connectable subscribes upstream.
	MulticastConnected = capitan.NewSignal(
		"ripple.multicast.connected",
		"Connectable subscribed to its upstream",
	)

	// MulticastDisconnected is emitted when a Connectable releases upstream.
	MulticastDisconnected = capitan.NewSignal(
		"ripple.multicast.disconnected",
		"Connectable released its upstream",
	)
)

// Retry signals.
var (
	// RetryAttempted is emitted when a failure triggers a resubscription.
	RetryAttempted = capitan.NewSignal(
		"ripple.retry.attempted",
		"Upstream resubscribed after a failure",
	)

	// RetryExhausted is emitted when a failure arrives with no retries left.
	// The stream stops forwarding values at this point.
	RetryExhausted = capitan.NewSignal(
		"ripple.retry.exhausted",
		"Retry budget exhausted, stream stopped",
	)
)

// Queue signals.
var (
	// QueueStarted is emitted when a Queue executor starts its worker.
	QueueStarted = capitan.NewSignal(
		"ripple.queue.started",
		"Queue worker started",
	)

	// QueueStopped is emitted when a Queue executor has drained and stopped.
	QueueStopped = capitan.NewSignal(
		"ripple.queue.stopped",
		"Queue worker stopped",
	)
)

// Source signals.
var (
	// WatcherStarted is emitted when a watcher-backed subscription begins.
	WatcherStarted = capitan.NewSignal(
		"ripple.watcher.started",
		"Watcher subscription started",
	)

	// WatcherFailed is emitted when a watcher cannot be started.
	WatcherFailed = capitan.NewSignal(
		"ripple.watcher.failed",
		"Watcher failed to start",
	)

	// WatcherStopped is emitted when a watcher-backed subscription ends.
	WatcherStopped = capitan.NewSignal(
		"ripple.watcher.stopped",
		"Watcher subscription stopped",
	)
)

// Processing signals.
var (
	// DecodeFailed is emitted when a codec rejects a payload.
	DecodeFailed = capitan.NewSignal(
		"ripple.decode.failed",
		"Payload could not be decoded",
	)

	// ValidateFailed is emitted when a decoded value fails validation.
	ValidateFailed = capitan.NewSignal(
		"ripple.validate.failed",
		"Value failed validation",
	)

	// PipelineFailed is emitted when a pipz pipeline rejects an element.
	PipelineFailed = capitan.NewSignal(
		"ripple.pipeline.failed",
		"Pipeline rejected an element",
	)
)

// Capacitor signals.
var (
	// CapacitorStarted is emitted when a Capacitor begins watching.
	CapacitorStarted = capitan.NewSignal(
		"ripple.capacitor.started",
		"Capacitor watching started",
	)

	// CapacitorStopped is emitted when a Capacitor releases its watcher.
	CapacitorStopped = capitan.NewSignal(
		"ripple.capacitor.stopped",
		"Capacitor watching stopped",
	)

	// CapacitorStateChanged is emitted when a Capacitor's health changes.
	CapacitorStateChanged = capitan.NewSignal(
		"ripple.capacitor.state.changed",
		"Capacitor health transition",
	)

	// CapacitorApplyFailed is emitted when the apply callback rejects a value.
	CapacitorApplyFailed = capitan.NewSignal(
		"ripple.capacitor.apply.failed",
		"Apply callback returned an error",
	)

	// CapacitorApplySucceeded is emitted when a value has been applied.
	CapacitorApplySucceeded = capitan.NewSignal(
		"ripple.capacitor.apply.succeeded",
		"Value applied",
	)
)
