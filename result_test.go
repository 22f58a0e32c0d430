package ripple

import (
	"errors"
	"testing"
)

func TestResult_Success(t *testing.T) {
	r := Success(42)

	v, err := r.Get()
	if err != nil || v != 42 {
		t.Errorf("expected (42, nil), got (%d, %v)", v, err)
	}
	if r.IsFailure() {
		t.Error("expected success")
	}
	if r.Value() != 42 || r.Err() != nil {
		t.Error("unexpected accessors")
	}
}

func TestResult_Failure(t *testing.T) {
	boom := errors.New("boom")
	r := Failure[string](boom)

	if !r.IsFailure() {
		t.Error("expected failure")
	}
	if !errors.Is(r.Err(), boom) {
		t.Errorf("expected boom, got %v", r.Err())
	}
	if r.Value() != "" {
		t.Errorf("expected zero value, got %q", r.Value())
	}
}

func TestResult_FailureWithNilError(t *testing.T) {
	r := Failure[int](nil)
	if !r.IsFailure() || r.Err() == nil {
		t.Error("expected nil error to still produce a failure")
	}
}

func TestValues_DropsFailures(t *testing.T) {
	o := From(Success(1), Failure[int](errors.New("x")), Success(2))
	r, _ := record(Values(o))
	expectValues(t, r.get(), 1, 2)
}
