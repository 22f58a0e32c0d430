// Package firestore provides a ripple.Watcher for Firestore documents using
// realtime listeners.
package firestore

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/zoobzio/ripple"
)

// DefaultField is the document field holding the payload.
const DefaultField = "data"

// Watcher watches a Firestore document for changes.
type Watcher struct {
	client     *firestore.Client
	collection string
	document   string
	field      string
	whole      bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithField sets the document field holding the payload.
func WithField(field string) Option {
	return func(w *Watcher) {
		w.field = field
	}
}

// WithDocumentJSON emits the whole document encoded as JSON instead of a
// single field.
func WithDocumentJSON() Option {
	return func(w *Watcher) {
		w.whole = true
	}
}

// New creates a Watcher for the given Firestore document.
func New(client *firestore.Client, collection, document string, opts ...Option) *Watcher {
	w := &Watcher{
		client:     client,
		collection: collection,
		document:   document,
		field:      DefaultField,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Observable returns the document's payload as a stream of results.
func (w *Watcher) Observable() ripple.Observable[ripple.Result[[]byte]] {
	return ripple.FromWatcher(w)
}

// Watch begins listening to the document and returns a channel that emits
// its payload whenever it changes. Missing documents and fields are skipped.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	docRef := w.client.Collection(w.collection).Doc(w.document)

	out := make(chan []byte)

	go func() {
		defer close(out)

		snapshots := docRef.Snapshots(ctx)
		defer snapshots.Stop()

		for {
			snap, err := snapshots.Next()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				continue
			}
			if !snap.Exists() {
				continue
			}

			value := w.extract(snap.Data())
			if value == nil {
				continue
			}

			select {
			case out <- value:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (w *Watcher) extract(data map[string]any) []byte {
	if w.whole {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil
		}
		return encoded
	}

	switch v := data[w.field].(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return nil
	}
}

// CreateDocument writes data into the default payload field of a document.
func CreateDocument(ctx context.Context, client *firestore.Client, collection, document string, data []byte) error {
	_, err := client.Collection(collection).Doc(document).Set(ctx, map[string]any{
		DefaultField: data,
	})
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// UpdateDocument replaces the default payload field of a document.
func UpdateDocument(ctx context.Context, client *firestore.Client, collection, document string, data []byte) error {
	_, err := client.Collection(collection).Doc(document).Update(ctx, []firestore.Update{
		{Path: DefaultField, Value: data},
	})
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	return nil
}

var _ ripple.Watcher = (*Watcher)(nil)
