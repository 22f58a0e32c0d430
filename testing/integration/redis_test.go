package integration

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/zoobzio/ripple"
	rippleredis "github.com/zoobzio/ripple/pkg/redis"
)

type appConfig struct {
	Feature string `json:"feature" validate:"required"`
	Limit   int    `json:"limit" validate:"min=0"`
}

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("failed to get endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: endpoint,
	})

	if err := client.ConfigSet(ctx, "notify-keyspace-events", "KEA").Err(); err != nil {
		t.Fatalf("failed to enable keyspace notifications: %v", err)
	}

	return client
}

func setConfig(t *testing.T, client *redis.Client, key string, cfg appConfig) {
	t.Helper()
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}
	if err := client.Set(context.Background(), key, data, 0).Err(); err != nil {
		t.Fatalf("failed to set value: %v", err)
	}
}

func TestCapacitor_Redis_InitialLoad(t *testing.T) {
	client := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	key := "config:test"
	setConfig(t, client, key, appConfig{Feature: "redis-test", Limit: 200})

	var applied appConfig
	capacitor := ripple.NewCapacitor[appConfig](
		rippleredis.New(client, key),
		func(cfg appConfig) error {
			applied = cfg
			return nil
		},
	)
	defer capacitor.Stop()

	if err := capacitor.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if capacitor.Health() != ripple.HealthHealthy {
		t.Errorf("expected healthy, got %s", capacitor.Health())
	}
	if applied.Feature != "redis-test" || applied.Limit != 200 {
		t.Errorf("unexpected applied config: %+v", applied)
	}
}

func TestCapacitor_Redis_LiveUpdate(t *testing.T) {
	client := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	key := "config:live"
	setConfig(t, client, key, appConfig{Feature: "v1", Limit: 10})

	var applyCount atomic.Int32
	var lastApplied atomic.Value

	capacitor := ripple.NewCapacitor[appConfig](
		rippleredis.New(client, key),
		func(cfg appConfig) error {
			applyCount.Add(1)
			lastApplied.Store(cfg)
			return nil
		},
		ripple.WithDebounce(50*time.Millisecond),
	)
	defer capacitor.Stop()

	if err := capacitor.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if applyCount.Load() != 1 {
		t.Errorf("expected 1 apply after start, got %d", applyCount.Load())
	}

	setConfig(t, client, key, appConfig{Feature: "v2", Limit: 20})

	if !waitFor(t, 5*time.Second, func() bool { return applyCount.Load() == 2 }) {
		t.Fatalf("expected 2 applies, got %d", applyCount.Load())
	}

	applied := lastApplied.Load().(appConfig)
	if applied.Feature != "v2" || applied.Limit != 20 {
		t.Errorf("unexpected applied config: %+v", applied)
	}
}

func TestCapacitor_Redis_InvalidUpdateRetainsPrevious(t *testing.T) {
	client := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	key := "config:retain"
	setConfig(t, client, key, appConfig{Feature: "valid", Limit: 50})

	capacitor := ripple.NewCapacitor[appConfig](
		rippleredis.New(client, key),
		nil,
		ripple.WithDebounce(50*time.Millisecond),
	)
	defer capacitor.Stop()

	if err := capacitor.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Limit -1 violates min=0.
	setConfig(t, client, key, appConfig{Feature: "invalid", Limit: -1})

	if !waitFor(t, 5*time.Second, func() bool { return capacitor.Health() == ripple.HealthDegraded }) {
		t.Fatalf("expected degraded, got %s", capacitor.Health())
	}

	current, ok := capacitor.Current()
	if !ok {
		t.Fatal("expected current config to exist")
	}
	if current.Feature != "valid" || current.Limit != 50 {
		t.Errorf("expected previous config retained, got %+v", current)
	}
	if capacitor.LastError() == nil {
		t.Error("expected LastError to be set")
	}
}

func TestCapacitor_Redis_RecoveryFromDegraded(t *testing.T) {
	client := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	key := "config:recovery"
	setConfig(t, client, key, appConfig{Feature: "v1", Limit: 10})

	capacitor := ripple.NewCapacitor[appConfig](
		rippleredis.New(client, key),
		nil,
		ripple.WithDebounce(50*time.Millisecond),
	)
	defer capacitor.Stop()

	if err := capacitor.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	setConfig(t, client, key, appConfig{Feature: "bad", Limit: -1})
	if !waitFor(t, 5*time.Second, func() bool { return capacitor.Health() == ripple.HealthDegraded }) {
		t.Fatalf("expected degraded, got %s", capacitor.Health())
	}

	setConfig(t, client, key, appConfig{Feature: "recovered", Limit: 99})
	if !waitFor(t, 5*time.Second, func() bool { return capacitor.Health() == ripple.HealthHealthy }) {
		t.Fatalf("expected healthy after recovery, got %s", capacitor.Health())
	}

	current, _ := capacitor.Current()
	if current.Feature != "recovered" {
		t.Errorf("expected 'recovered', got %s", current.Feature)
	}
}

func TestCapacitor_Redis_Stream(t *testing.T) {
	client := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	key := "config:stream"
	setConfig(t, client, key, appConfig{Feature: "a", Limit: 1})

	capacitor := ripple.NewCapacitor[appConfig](rippleredis.New(client, key), nil, ripple.WithDebounce(0))
	defer capacitor.Stop()

	if err := capacitor.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	limits := ripple.NewValue(0, ripple.Map(capacitor.Stream(), func(c appConfig) int { return c.Limit }))
	defer limits.Dispose()

	if limits.Current() != 1 {
		t.Errorf("expected replayed limit 1, got %d", limits.Current())
	}

	setConfig(t, client, key, appConfig{Feature: "b", Limit: 2})

	if !waitFor(t, 5*time.Second, func() bool { return limits.Current() == 2 }) {
		t.Errorf("expected limit 2, got %d", limits.Current())
	}
}
