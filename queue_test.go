package ripple

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/capitan"
)

func TestQueue_RunsInOrder(t *testing.T) {
	q := NewQueue()
	defer q.Close(context.Background())

	var (
		mu    sync.Mutex
		order []int
	)
	for i := range 10 {
		q.Submit(func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, i)
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := q.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	expectValues(t, order, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
}

func TestQueue_OneAtATime(t *testing.T) {
	q := NewQueue()
	defer q.Close(context.Background())

	var running, overlap atomic.Int32
	for range 20 {
		q.Submit(func() {
			if running.Add(1) > 1 {
				overlap.Add(1)
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := q.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if overlap.Load() != 0 {
		t.Errorf("expected no overlapping actions, got %d", overlap.Load())
	}
}

func TestQueue_SubmitFromAction(t *testing.T) {
	q := NewQueue()
	defer q.Close(context.Background())

	done := make(chan struct{})
	q.Submit(func() {
		q.Submit(func() { close(done) })
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for nested action")
	}
}

func TestQueue_CloseDrains(t *testing.T) {
	q := NewQueue()

	var ran atomic.Int32
	for range 5 {
		q.Submit(func() { ran.Add(1) })
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := q.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if ran.Load() != 5 {
		t.Errorf("expected 5 actions drained, got %d", ran.Load())
	}

	q.Submit(func() { ran.Add(1) })
	if err := q.Flush(ctx); err != nil {
		t.Fatalf("Flush() after close error = %v", err)
	}
	if ran.Load() != 5 {
		t.Errorf("expected submit after close to be dropped, got %d", ran.Load())
	}
	if q.Pending() != 0 {
		t.Errorf("expected nothing pending, got %d", q.Pending())
	}
}

func TestQueue_CloseRespectsContext(t *testing.T) {
	q := NewQueue()
	release := make(chan struct{})
	q.Submit(func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := q.Close(ctx); err == nil {
		t.Error("expected context error while an action is blocked")
	}

	close(release)
	if err := q.Close(context.Background()); err != nil {
		t.Errorf("expected second Close to succeed, got %v", err)
	}
}

func TestQueue_Signals(t *testing.T) {
	var stopped atomic.Int32
	capitan.Hook(QueueStopped, func(_ context.Context, _ *capitan.Event) {
		stopped.Add(1)
	})

	q := NewQueue()
	if err := q.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if !waitFor(t, time.Second, func() bool { return stopped.Load() >= 1 }) {
		t.Error("expected queue stopped signal")
	}
}
