package ripple

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on multicast activity.
type MetricsProvider interface {
	// OnSubscribe is called after an observer is registered.
	// Active is the number of registered observers afterwards.
	OnSubscribe(active int)

	// OnDispose is called after an observer is removed.
	// Active is the number of registered observers afterwards.
	OnDispose(active int)

	// OnBroadcast is called after an element was delivered.
	// Recipients is the number of observers that received it.
	OnBroadcast(recipients int)

	// OnStateChange is called when a Connectable transitions between states.
	OnStateChange(from, to State)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnSubscribe(_ int)        {}
func (NoOpMetricsProvider) OnDispose(_ int)          {}
func (NoOpMetricsProvider) OnBroadcast(_ int)        {}
func (NoOpMetricsProvider) OnStateChange(_, _ State) {}
