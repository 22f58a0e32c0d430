// Package kubernetes provides a ripple.Watcher for ConfigMap and Secret keys
// using the Watch API.
package kubernetes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zoobzio/clockz"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes"

	"github.com/zoobzio/ripple"
)

// ResourceType specifies the kind of resource to watch.
type ResourceType int

const (
	// ConfigMap watches a ConfigMap resource.
	ConfigMap ResourceType = iota
	// Secret watches a Secret resource.
	Secret
)

func (rt ResourceType) String() string {
	if rt == Secret {
		return "secret"
	}
	return "configmap"
}

// DefaultReconnectInterval is how long the watcher waits before
// re-establishing a broken watch.
const DefaultReconnectInterval = time.Second

var errWatchClosed = errors.New("watch channel closed")

// Watcher watches one key of a ConfigMap or Secret for changes.
type Watcher struct {
	client       kubernetes.Interface
	namespace    string
	name         string
	key          string
	resourceType ResourceType
	reconnect    time.Duration
	clock        clockz.Clock
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithResourceType sets the resource type to watch. Defaults to ConfigMap.
func WithResourceType(rt ResourceType) Option {
	return func(w *Watcher) {
		w.resourceType = rt
	}
}

// WithReconnectInterval sets the pause before a broken watch is re-established.
func WithReconnectInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.reconnect = d
	}
}

// WithClock sets the clock used for reconnect pauses.
func WithClock(clock clockz.Clock) Option {
	return func(w *Watcher) {
		w.clock = clock
	}
}

// New creates a Watcher for the given resource. The key selects the data
// entry within the ConfigMap or Secret.
func New(client kubernetes.Interface, namespace, name, key string, opts ...Option) *Watcher {
	w := &Watcher{
		client:       client,
		namespace:    namespace,
		name:         name,
		key:          key,
		resourceType: ConfigMap,
		reconnect:    DefaultReconnectInterval,
		clock:        clockz.RealClock,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Observable returns the key's value as a stream of results.
func (w *Watcher) Observable() ripple.Observable[ripple.Result[[]byte]] {
	return ripple.FromWatcher(w)
}

// Watch begins watching the resource and returns a channel that emits the
// key's value whenever it changes. The current value is emitted first.
// Broken watches are re-established after the reconnect interval.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	out := make(chan []byte)

	go func() {
		defer close(out)

		for {
			err := w.watchLoop(ctx, out)
			if err == nil || ctx.Err() != nil {
				return
			}
			if !w.pause(ctx) {
				return
			}
		}
	}()

	return out, nil
}

func (w *Watcher) watchLoop(ctx context.Context, out chan<- []byte) error {
	value, resourceVersion, err := w.current(ctx)
	if err != nil {
		return err
	}

	if value != nil {
		select {
		case out <- value:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	opts := metav1.ListOptions{
		FieldSelector:   fmt.Sprintf("metadata.name=%s", w.name),
		ResourceVersion: resourceVersion,
	}

	var watcher watch.Interface
	if w.resourceType == ConfigMap {
		watcher, err = w.client.CoreV1().ConfigMaps(w.namespace).Watch(ctx, opts)
	} else {
		watcher, err = w.client.CoreV1().Secrets(w.namespace).Watch(ctx, opts)
	}
	if err != nil {
		return fmt.Errorf("failed to start %s watch: %w", w.resourceType, err)
	}
	defer watcher.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.ResultChan():
			if !ok {
				return errWatchClosed
			}

			switch event.Type {
			case watch.Error:
				return fmt.Errorf("%s watch error: %v", w.resourceType, event.Object)
			case watch.Deleted, watch.Bookmark:
				continue
			}

			value := w.extract(event.Object)
			if value == nil {
				continue
			}
			select {
			case out <- value:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (w *Watcher) current(ctx context.Context) ([]byte, string, error) {
	if w.resourceType == ConfigMap {
		cm, err := w.client.CoreV1().ConfigMaps(w.namespace).Get(ctx, w.name, metav1.GetOptions{})
		if err != nil {
			return nil, "", err
		}
		return w.extract(cm), cm.ResourceVersion, nil
	}

	secret, err := w.client.CoreV1().Secrets(w.namespace).Get(ctx, w.name, metav1.GetOptions{})
	if err != nil {
		return nil, "", err
	}
	return w.extract(secret), secret.ResourceVersion, nil
}

// extract returns the watched key's value, or nil when the object is not the
// watched kind or lacks the key.
func (w *Watcher) extract(obj any) []byte {
	switch res := obj.(type) {
	case *corev1.ConfigMap:
		if w.resourceType != ConfigMap {
			return nil
		}
		if v, ok := res.Data[w.key]; ok {
			return []byte(v)
		}
		return res.BinaryData[w.key]
	case *corev1.Secret:
		if w.resourceType != Secret {
			return nil
		}
		return res.Data[w.key]
	}
	return nil
}

// pause waits out the reconnect interval. It returns false if ctx ended first.
func (w *Watcher) pause(ctx context.Context) bool {
	timer := w.clock.NewTimer(w.reconnect)
	defer timer.Stop()

	select {
	case <-timer.C():
		return true
	case <-ctx.Done():
		return false
	}
}

var _ ripple.Watcher = (*Watcher)(nil)
