package ripple

import "testing"

func TestNewDisposable_RunsOnce(t *testing.T) {
	calls := 0
	d := NewDisposable(func() { calls++ })

	if d.Disposed() {
		t.Fatal("expected live disposable")
	}
	d.Dispose()
	d.Dispose()

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if !d.Disposed() {
		t.Error("expected disposed")
	}
}

func TestNewDisposable_ReentrantDispose(t *testing.T) {
	calls := 0
	var d *Action
	d = NewDisposable(func() {
		calls++
		d.Dispose()
	})
	d.Dispose()

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestAction_NilSafe(t *testing.T) {
	var d *Action
	d.Dispose()
	if !d.Disposed() {
		t.Error("expected nil action to report disposed")
	}
}

func TestEmpty(t *testing.T) {
	d := Empty()
	d.Dispose()
	if !d.Disposed() {
		t.Error("expected disposed")
	}
}

func TestComposite_DisposesInOrder(t *testing.T) {
	var order []int
	d := Composite(
		NewDisposable(func() { order = append(order, 1) }),
		nil,
		NewDisposable(func() { order = append(order, 2) }),
	)
	d.Dispose()
	d.Dispose()

	expectValues(t, order, 1, 2)
}

func TestSingle_DisposeInsideBody(t *testing.T) {
	released := 0
	d := Single(func(h *SingleHandle) Disposable {
		h.Dispose()
		if !h.IsDisposed() {
			t.Error("expected handle disposed inside body")
		}
		return NewDisposable(func() { released++ })
	})

	if released != 1 {
		t.Errorf("expected source released once body returned, got %d", released)
	}
	d.Dispose()
	if released != 1 {
		t.Errorf("expected no second release, got %d", released)
	}
}

func TestSingle_LiveDuringBody(t *testing.T) {
	Single(func(h *SingleHandle) Disposable {
		if h.IsDisposed() {
			t.Error("expected handle live during body")
		}
		return Empty()
	})
}

func TestSingle_DisposeLater(t *testing.T) {
	var handle *SingleHandle
	released := 0
	d := Single(func(h *SingleHandle) Disposable {
		handle = h
		return NewDisposable(func() { released++ })
	})

	handle.Dispose()
	d.Dispose()

	if released != 1 {
		t.Errorf("expected 1 release, got %d", released)
	}
}

func TestDeferred_EmbedAfterDispose(t *testing.T) {
	d := NewDeferred()
	d.Dispose()

	released := false
	d.Embed(NewDisposable(func() { released = true }))

	if !released {
		t.Error("expected embed into disposed slot to dispose immediately")
	}
	if !d.IsDisposed() {
		t.Error("expected disposed")
	}
}

func TestDeferred_DisposesEmbedded(t *testing.T) {
	d := NewDeferred()
	count := 0
	d.Embed(NewDisposable(func() { count++ }))
	d.Embed(NewDisposable(func() { count++ }))
	d.Embed(nil)

	if count != 0 {
		t.Fatalf("expected nothing released yet, got %d", count)
	}
	d.Dispose()
	d.Dispose()
	if count != 2 {
		t.Errorf("expected 2 releases, got %d", count)
	}
}

func TestSerial_ReplacesPrevious(t *testing.T) {
	s := &Serial{}
	var released []string

	s.Set(NewDisposable(func() { released = append(released, "a") }))
	s.Set(NewDisposable(func() { released = append(released, "b") }))
	expectValues(t, released, "a")

	s.Dispose()
	expectValues(t, released, "a", "b")

	s.Set(NewDisposable(func() { released = append(released, "c") }))
	expectValues(t, released, "a", "b", "c")
}

func TestBag(t *testing.T) {
	b := NewBag()
	count := 0
	b.Add(NewDisposable(func() { count++ }))
	b.Add(NewDisposable(func() { count++ }))
	b.Add(nil)

	if b.Len() != 2 {
		t.Errorf("expected 2 items, got %d", b.Len())
	}
	b.Dispose()
	if count != 2 {
		t.Errorf("expected 2 releases, got %d", count)
	}
	if !b.IsDisposed() || b.Len() != 0 {
		t.Error("expected empty disposed bag")
	}

	b.Add(NewDisposable(func() { count++ }))
	if count != 3 {
		t.Errorf("expected late add to be released immediately, got %d", count)
	}
}
