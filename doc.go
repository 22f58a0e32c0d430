/*
Package ripple provides push-based reactive streams with explicit,
deterministic disposal.

An Observable is a recipe for a subscription: nothing happens until
Subscribe is called, and every subscription returns a Disposable that stops
delivery and releases whatever the subscription holds. Elements are delivered
synchronously on the producer's goroutine unless an operator says otherwise.

# Basic Usage

Build a stream, transform it, and subscribe:

	d := ripple.Map(ripple.From(1, 2, 3), func(n int) string {
	    return strconv.Itoa(n * 10)
	}).Subscribe(func(s string) {
	    fmt.Println(s)
	})
	defer d.Dispose()

# Sharing

A Multicast relays sent elements to every registered observer:

	m := ripple.NewMulticast[Event]()
	m.Subscribe(audit)
	m.Send(evt)

Connectable shares one upstream subscription between many observers and is
started and stopped explicitly. Replay shares one upstream and replays the
last elements to late subscribers.

# State

Value tracks the latest element of a source and replays it on Stream.
Variable is a Value whose contents are set directly:

	count := ripple.NewVariable(0)
	count.Stream().Subscribe(render)
	count.Set(5)

A Value releases its source subscription on Dispose, or once it is no longer
reachable. Use a Bag to tie subscriptions to an explicit scope.

# Completion and Failure

Completable adds an at-most-once completion signal; Concat plays Completables
in order. Streams have no error channel: failures travel as Result values and
Retry resubscribes on failure.

# Sources

FromWatcher adapts a Watcher into a stream of raw payloads. Providers for
files, Redis, Consul, etcd, NATS, ZooKeeper, Postgres, Firestore and
Kubernetes live under pkg/. Decode, Validate and Through turn payloads into
typed values:

	configs := ripple.Values(ripple.Validate(
	    ripple.Decode[Config](file.New("config.yaml").Observable(), ripple.YAMLCodec{}),
	))
	current := ripple.NewValue(Config{}, configs.Debounce(200*time.Millisecond, clockz.RealClock))

Capacitor packages that chain with rollback: a rejected payload leaves the
last applied value in place.

	c := ripple.NewCapacitor[Config](file.New("config.yaml"), app.Apply)
	err := c.Start(ctx)

# Observability

Lifecycle events such as connections, retries, watcher failures and
Capacitor health changes are emitted as capitan signals; see signals.go. Multicast and Connectable accept a
MetricsProvider.

# Concurrency

Subscribe, Dispose and Send are safe to call from any goroutine, but a single
subscription is not meant to be driven from several goroutines at once. Use
ObserveOn with a Queue to move delivery onto a dedicated goroutine.
*/
package ripple
