package ripple

import "sync"

// Replay shares one upstream subscription and remembers the last bufferSize
// elements it delivered.
//
// A new subscriber first receives the buffered elements, oldest first, and
// then live elements. An element sent upstream while the buffer is being
// delivered follows it, so nothing is lost or repeated. The upstream is
// connected by the first subscriber and released when the last one
// disposes; the buffer survives reconnects. A cold source therefore runs
// once for as long as subscribers remain, not once per subscriber.
//
// Example:
//
//	latest := events.Observable().Replay(1)
//	latest.Subscribe(render) // receives the most recent event, then live ones
func (o Observable[T]) Replay(bufferSize int) Observable[T] {
	var (
		mu       sync.Mutex
		seq      uint64
		buffer   = newRing[stamped[T]](bufferSize)
		feed     = NewMulticast[stamped[T]]()
		upstream *Deferred
		refs     int
	)

	return New(func(observer Observer[T]) Disposable {
		sink := newCatchUp(observer)
		registration := feed.Subscribe(sink.live)

		mu.Lock()
		cached := buffer.all()
		mu.Unlock()
		sink.replay(cached)

		mu.Lock()
		refs++
		var connect *Deferred
		if upstream == nil {
			connect = NewDeferred()
			upstream = connect
		}
		mu.Unlock()

		if connect != nil {
			connect.Embed(o.Subscribe(func(e T) {
				mu.Lock()
				seq++
				s := stamped[T]{seq: seq, value: e}
				buffer.push(s)
				mu.Unlock()
				feed.Send(s)
			}))
		}

		return NewDisposable(func() {
			sink.stop()
			registration.Dispose()

			mu.Lock()
			refs--
			var release *Deferred
			if refs == 0 {
				release = upstream
				upstream = nil
			}
			mu.Unlock()

			if release != nil {
				release.Dispose()
			}
		})
	})
}
