package ripple

// ring is a fixed-capacity buffer that keeps the most recent elements.
type ring[T any] struct {
	items []T
	size  int
	head  int
	count int
}

// newRing creates a ring with the given capacity.
// If size is 0 or less, the ring is disabled and nil is returned.
func newRing[T any](size int) *ring[T] {
	if size <= 0 {
		return nil
	}
	return &ring[T]{
		items: make([]T, size),
		size:  size,
	}
}

// push adds an element, evicting the oldest when full.
func (r *ring[T]) push(v T) {
	if r == nil {
		return
	}
	r.items[r.head] = v
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// all returns the buffered elements, oldest first.
func (r *ring[T]) all() []T {
	if r == nil || r.count == 0 {
		return nil
	}
	result := make([]T, r.count)
	start := (r.head - r.count + r.size) % r.size
	for i := 0; i < r.count; i++ {
		result[i] = r.items[(start+i)%r.size]
	}
	return result
}
