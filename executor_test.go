package ripple

import (
	"context"
	"testing"
	"time"
)

// manualExecutor holds actions until run is called.
type manualExecutor struct {
	actions []func()
}

func (e *manualExecutor) Submit(action func()) {
	e.actions = append(e.actions, action)
}

func (e *manualExecutor) run() {
	actions := e.actions
	e.actions = nil
	for _, a := range actions {
		a()
	}
}

func TestImmediate(t *testing.T) {
	ran := false
	Immediate.Submit(func() { ran = true })
	if !ran {
		t.Error("expected inline execution")
	}
}

func TestExecutorFunc(t *testing.T) {
	var submitted int
	exec := ExecutorFunc(func(action func()) {
		submitted++
		action()
	})
	exec.Submit(func() {})
	if submitted != 1 {
		t.Errorf("expected 1 submission, got %d", submitted)
	}
}

func TestObserveOn_DeliversThroughExecutor(t *testing.T) {
	exec := &manualExecutor{}
	source := NewMulticast[int]()
	r, _ := record(source.Observable().ObserveOn(exec))

	source.Send(1)
	source.Send(2)
	if r.len() != 0 {
		t.Fatalf("expected delivery deferred to executor, got %v", r.get())
	}

	exec.run()
	expectValues(t, r.get(), 1, 2)
}

func TestObserveOn_DropsAfterDispose(t *testing.T) {
	exec := &manualExecutor{}
	source := NewMulticast[int]()
	r, d := record(source.Observable().ObserveOn(exec))

	source.Send(1)
	d.Dispose()
	exec.run()

	if r.len() != 0 {
		t.Errorf("expected queued delivery dropped, got %v", r.get())
	}
}

func TestSubscribeOn_DefersSubscription(t *testing.T) {
	exec := &manualExecutor{}
	source := NewMulticast[int]()
	r, _ := record(source.Observable().SubscribeOn(exec))

	if source.Count() != 0 {
		t.Fatal("expected subscription deferred to executor")
	}
	exec.run()
	if source.Count() != 1 {
		t.Fatalf("expected upstream subscribed, got %d", source.Count())
	}

	source.Send(1)
	expectValues(t, r.get(), 1)
}

func TestSubscribeOn_DisposeBeforeRun(t *testing.T) {
	exec := &manualExecutor{}
	source := NewMulticast[int]()
	_, d := record(source.Observable().SubscribeOn(exec))

	d.Dispose()
	exec.run()

	if source.Count() != 0 {
		t.Errorf("expected no upstream subscription, got %d", source.Count())
	}
}

func TestObserveOn_Queue(t *testing.T) {
	q := NewQueue()
	defer q.Close(context.Background())

	source := NewMulticast[int]()
	r, d := record(source.Observable().ObserveOn(q))
	defer d.Dispose()

	for i := range 100 {
		source.Send(i)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := q.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	got := r.get()
	if len(got) != 100 {
		t.Fatalf("expected 100 values, got %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("expected FIFO order, got %d at %d", v, i)
		}
	}
}
