package ripple

// Variable is a writable cell: a Value fed by its own Multicast.
//
// Example:
//
//	count := ripple.NewVariable(0)
//	count.Stream().Subscribe(func(n int) { fmt.Println("count:", n) }) // count: 0
//	count.Set(5)                                                         // count: 5
type Variable[T any] struct {
	value *Value[T]
	feed  *Multicast[T]
}

// NewVariable creates a Variable holding initial.
func NewVariable[T any](initial T) *Variable[T] {
	feed := NewMulticast[T]()
	return &Variable[T]{
		value: NewValue(initial, feed.Observable()),
		feed:  feed,
	}
}

// NewVariableFrom creates a Variable that starts at the current value of
// source and follows its later changes. Set may still override it until the
// source changes again.
func NewVariableFrom[T any](source *Value[T]) *Variable[T] {
	v := NewVariable(source.Current())
	feed := v.feed
	DisposeWhenUnreachable(v, source.Stream().SkipFirst().Subscribe(feed.Send))
	return v
}

// Get returns the current value.
func (v *Variable[T]) Get() T {
	return v.value.Current()
}

// Set stores x and notifies subscribers. Get returns x from inside the
// notifications.
func (v *Variable[T]) Set(x T) {
	v.feed.Send(x)
}

// Update replaces the current value with fn applied to it.
func (v *Variable[T]) Update(fn func(T) T) {
	v.Set(fn(v.Get()))
}

// Stream emits the current value on subscribe, followed by every change.
func (v *Variable[T]) Stream() Observable[T] {
	return v.value.Stream()
}

// Value returns the read-only view of the Variable.
func (v *Variable[T]) Value() *Value[T] {
	return v.value
}
