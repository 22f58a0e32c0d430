package ripple

import "runtime"

// DisposeWhenUnreachable disposes d once owner has been garbage collected.
//
// The release runs once, on the runtime's cleanup goroutine, some time after
// owner becomes unreachable. d must not reference owner, or owner is never
// collected. Owners that need deterministic release should hold a Bag and
// dispose it on their own shutdown path instead.
func DisposeWhenUnreachable[O any](owner *O, d Disposable) Disposable {
	runtime.AddCleanup(owner, func(d Disposable) {
		d.Dispose()
	}, d)
	return d
}
