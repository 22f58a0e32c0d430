package ripple

import "testing"

func TestCompletable_CompleteOnce(t *testing.T) {
	completions := 0
	c := NewCompletable(func(observer CompletableObserver[int]) Disposable {
		observer.Element(1)
		observer.Complete()
		observer.Element(2)
		observer.Complete()
		return Empty()
	})

	r := &recorder[int]{}
	c.Subscribe(r.observe, func() { completions++ })

	expectValues(t, r.get(), 1)
	if completions != 1 {
		t.Errorf("expected 1 completion, got %d", completions)
	}
}

func TestCompletable_CompletionReleasesSource(t *testing.T) {
	released := 0
	var complete func()
	c := NewCompletable(func(observer CompletableObserver[int]) Disposable {
		complete = observer.Complete
		return NewDisposable(func() { released++ })
	})

	d := c.Subscribe(nil, nil)
	complete()
	if released != 1 {
		t.Errorf("expected source released on completion, got %d", released)
	}
	d.Dispose()
	if released != 1 {
		t.Errorf("expected single release, got %d", released)
	}
}

func TestCompletable_NoCompletionAfterDispose(t *testing.T) {
	var observer CompletableObserver[int]
	c := NewCompletable(func(o CompletableObserver[int]) Disposable {
		observer = o
		return Empty()
	})

	completed := false
	r := &recorder[int]{}
	d := c.Subscribe(r.observe, func() { completed = true })
	d.Dispose()

	observer.Element(1)
	observer.Complete()

	if completed {
		t.Error("expected no completion after dispose")
	}
	if r.len() != 0 {
		t.Errorf("expected no elements after dispose, got %v", r.get())
	}
}

func TestCompleted(t *testing.T) {
	completed := false
	Completed[string]().Subscribe(nil, func() { completed = true })
	if !completed {
		t.Error("expected immediate completion")
	}
}

func TestNeverCompletes(t *testing.T) {
	completed := false
	d := NeverCompletes[string]().Subscribe(nil, func() { completed = true })
	d.Dispose()
	if completed {
		t.Error("expected no completion")
	}
}

func TestCompletable_ZeroValue(t *testing.T) {
	var c Completable[int]
	d := c.Subscribe(nil, nil)
	d.Dispose()
}

func TestCompletable_ElementsAndCompletion(t *testing.T) {
	c := From(1, 2, 3).CompleteWhen(func(n int) bool { return n == 2 })

	r, _ := record(c.Elements())
	expectValues(t, r.get(), 1, 2)

	done, _ := record(c.Completion())
	if done.len() != 1 {
		t.Errorf("expected one completion event, got %d", done.len())
	}
}

func TestCompleteWhen_ReleasesUpstream(t *testing.T) {
	source := NewMulticast[string]()
	completed := false
	r := &recorder[string]{}
	source.Observable().
		CompleteWhen(func(s string) bool { return s == "stop" }).
		Subscribe(r.observe, func() { completed = true })

	source.Send("a")
	source.Send("stop")
	source.Send("b")

	expectValues(t, r.get(), "a", "stop")
	if !completed {
		t.Error("expected completion")
	}
	if source.Count() != 0 {
		t.Errorf("expected upstream released, got %d", source.Count())
	}
}

func TestMapElements_KeepsCompletion(t *testing.T) {
	c := MapElements(From(1, 2, 3).CompleteWhen(func(n int) bool { return n == 3 }),
		func(o Observable[int]) Observable[int] {
			return o.Filter(func(n int) bool { return n != 2 })
		})

	completed := false
	r := &recorder[int]{}
	c.Subscribe(r.observe, func() { completed = true })

	expectValues(t, r.get(), 1, 3)
	if !completed {
		t.Error("expected completion to pass through")
	}
}

func TestAsCompletable_NoCompletionObserved(t *testing.T) {
	source := NewMulticast[int]()
	completed := false
	r := &recorder[int]{}

	d := source.Observable().AsCompletable().Subscribe(r.observe, func() { completed = true })
	source.Send(1)
	d.Dispose()
	source.Send(2)

	expectValues(t, r.get(), 1)
	if completed {
		t.Error("expected completion to stay unobserved")
	}
	if source.Count() != 0 {
		t.Errorf("expected upstream released, got %d", source.Count())
	}
}
