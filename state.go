package ripple

// State represents the connection state of a Connectable.
type State int32

const (
	// StateIdle indicates the Connectable has never been started.
	StateIdle State = iota

	// StateConnected indicates the upstream subscription is live and
	// elements are relayed to observers.
	StateConnected

	// StateStopped indicates the upstream subscription was released.
	// The Connectable can be started again.
	StateStopped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnected:
		return "connected"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
