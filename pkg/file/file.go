// Package file provides a ripple.Watcher for files on the local filesystem.
package file

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/zoobzio/ripple"
)

// DefaultOps are the filesystem operations that trigger a reload.
const DefaultOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// Watcher watches a file for changes and emits its contents.
//
// The parent directory is watched rather than the file itself, so editors
// that save by writing a temporary file and renaming it over the original
// are picked up.
type Watcher struct {
	path   string
	ops    fsnotify.Op
	dedupe bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithOps sets the filesystem operations that trigger a reload.
func WithOps(ops fsnotify.Op) Option {
	return func(w *Watcher) {
		w.ops = ops
	}
}

// WithDedupe suppresses emissions whose contents equal the previous ones.
// A single save often produces several write events.
func WithDedupe() Option {
	return func(w *Watcher) {
		w.dedupe = true
	}
}

// New creates a Watcher for the file at path.
func New(path string, opts ...Option) *Watcher {
	w := &Watcher{
		path: path,
		ops:  DefaultOps,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Observable returns the file contents as a stream of results.
func (w *Watcher) Observable() ripple.Observable[ripple.Result[[]byte]] {
	return ripple.FromWatcher(w)
}

// Watch begins watching the file and returns a channel that emits the file
// contents whenever it changes. The current contents are emitted first.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	path, err := filepath.Abs(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", w.path, err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", w.path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch file %s: %w", w.path, err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer watcher.Close()

		var last []byte
		emit := func() bool {
			data, err := os.ReadFile(path)
			if err != nil {
				return true
			}
			if w.dedupe && last != nil && bytes.Equal(data, last) {
				return true
			}
			last = data
			select {
			case out <- data:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if event.Op&w.ops == 0 {
					continue
				}
				if !emit() {
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out, nil
}

var _ ripple.Watcher = (*Watcher)(nil)
