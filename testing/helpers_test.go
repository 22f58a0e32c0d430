package testing

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zoobzio/ripple"
)

func TestTestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  TestConfig
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  TestConfig{Port: 8080, Host: "localhost", Timeout: 30},
			wantErr: false,
		},
		{
			name:    "port too low",
			config:  TestConfig{Port: 0, Host: "localhost"},
			wantErr: true,
		},
		{
			name:    "port too high",
			config:  TestConfig{Port: 70000, Host: "localhost"},
			wantErr: true,
		},
		{
			name:    "empty host",
			config:  TestConfig{Port: 8080, Host: ""},
			wantErr: true,
		},
	}

	v := validator.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("Struct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWaitFor(t *testing.T) {
	t.Run("condition met immediately", func(t *testing.T) {
		result := WaitFor(t, 100*time.Millisecond, func() bool {
			return true
		})
		if !result {
			t.Error("expected WaitFor to return true")
		}
	})

	t.Run("condition never met", func(t *testing.T) {
		result := WaitFor(t, 50*time.Millisecond, func() bool {
			return false
		})
		if result {
			t.Error("expected WaitFor to return false on timeout")
		}
	})

	t.Run("condition met after delay", func(t *testing.T) {
		var met atomic.Bool
		go func() {
			time.Sleep(30 * time.Millisecond)
			met.Store(true)
		}()
		result := WaitFor(t, time.Second, met.Load)
		if !result {
			t.Error("expected WaitFor to return true")
		}
	})
}

func TestRecorder(t *testing.T) {
	r := Record(t, ripple.From(1, 2, 3))

	if r.Len() != 3 {
		t.Fatalf("expected 3 values, got %d", r.Len())
	}
	RequireValues(t, r, 1, 2, 3)

	last, ok := r.Last()
	if !ok || last != 3 {
		t.Errorf("expected last 3, got %d (ok=%v)", last, ok)
	}
}

func TestRecorder_Empty(t *testing.T) {
	r := NewRecorder[string]()
	if _, ok := r.Last(); ok {
		t.Error("expected no last value")
	}
	if len(r.Values()) != 0 {
		t.Errorf("expected no values, got %v", r.Values())
	}
}

func TestRecorder_ValuesIsCopy(t *testing.T) {
	r := Record(t, ripple.Just(1))
	values := r.Values()
	values[0] = 99
	RequireValues(t, r, 1)
}

func TestWaitForLen(t *testing.T) {
	m := ripple.NewMulticast[int]()
	r := Record(t, m.Observable())

	go func() {
		time.Sleep(20 * time.Millisecond)
		m.Send(7)
	}()

	if !WaitForLen(t, r, 1, time.Second) {
		t.Fatal("timeout waiting for value")
	}
	RequireValues(t, r, 7)
}
