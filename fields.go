package ripple

import "github.com/zoobzio/capitan"

// Field keys for ripple events.
var (
	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyAttempt is the 1-based resubscription number in a Retry.
	KeyAttempt = capitan.NewIntKey("attempt")

	// KeyRemaining is the number of retries left after an attempt.
	KeyRemaining = capitan.NewIntKey("remaining")

	// KeyObservers is the number of observers registered on a Multicast.
	KeyObservers = capitan.NewIntKey("observers")

	// KeyPending is the number of actions still queued on an executor.
	KeyPending = capitan.NewIntKey("pending")

	// KeyWatcherType is the type name of the watcher implementation.
	KeyWatcherType = capitan.NewStringKey("watcher_type")

	// KeyState is the health of a Capacitor.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the health before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the health after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyDebounce is the configured debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyContentType is the MIME type of the codec in use.
	KeyContentType = capitan.NewStringKey("content_type")
)
