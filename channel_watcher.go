package ripple

import (
	"context"
	"errors"
	"sync"
)

// ErrAlreadyWatching is returned by ChannelWatcher.Watch while another
// Watch call on the same channel is still active.
var ErrAlreadyWatching = errors.New("channel watcher: already watching")

// ChannelWatcher wraps an existing byte channel as a Watcher.
// Useful for testing and for custom sources that already produce bytes.
//
// A channel has a single reader, so only one Watch may be active at a time.
// Once the previous Watch context ends, the channel can be watched again.
type ChannelWatcher struct {
	ch <-chan []byte

	mu       sync.Mutex
	watching bool
}

// NewChannelWatcher creates a ChannelWatcher over ch.
func NewChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch}
}

// Watch returns a channel that forwards values from the wrapped channel
// until ctx is canceled or the wrapped channel is closed.
func (w *ChannelWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil, ErrAlreadyWatching
	}
	w.watching = true
	w.mu.Unlock()

	out := make(chan []byte)
	go func() {
		defer func() {
			w.mu.Lock()
			w.watching = false
			w.mu.Unlock()
			close(out)
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-w.ch:
				if !ok {
					return
				}
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

var _ Watcher = (*ChannelWatcher)(nil)
