package memo

import (
	"sync/atomic"
	"testing"
)

func TestDefaultObservabilityConfig(t *testing.T) {
	config := DefaultObservabilityConfig()

	if !config.EnableTracing {
		t.Error("Tracing should be enabled by default")
	}
	if !config.EnableMetrics {
		t.Error("Metrics should be enabled by default")
	}

	foundSystem := false
	for _, attr := range config.TracingAttributes {
		if attr.Key == "cache.system" && attr.Value.AsString() == "gopher-memo" {
			foundSystem = true
		}
	}
	if !foundSystem {
		t.Error("Default tracing attributes should include cache.system")
	}
}

func TestObservabilityInstrumentation(t *testing.T) {
	instruments := initObservability()

	if instruments.tracer == nil {
		t.Error("Tracer should be initialized")
	}
	if instruments.meter == nil {
		t.Error("Meter should be initialized")
	}
	if instruments.lookupCount == nil {
		t.Error("Lookup counter should be initialized")
	}
	if instruments.evictionCount == nil {
		t.Error("Eviction counter should be initialized")
	}
	if instruments.entryCount == nil {
		t.Error("Entry gauge should be initialized")
	}
	if instruments.computeDuration == nil {
		t.Error("Compute duration histogram should be initialized")
	}
}

// Instrumentation must never change cache semantics, even without a
// registered SDK (the global no-op providers).
func TestObservedCacheStillMemoizes(t *testing.T) {
	var calls atomic.Int64
	c, err := New(countingFunc(&calls), Config{
		MaxSize:       2,
		Observability: DefaultObservabilityConfig(),
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, k := range []int{1, 2, 1, 3, 1} {
		if _, err := c.Call(k); err != nil {
			t.Fatal(err)
		}
	}

	info := c.Info()
	if info.Hits != 2 || info.Misses != 3 {
		t.Fatalf("expected 2 hits / 3 misses, got %v", info)
	}
	if info.Size != 2 {
		t.Fatalf("expected size 2, got %d", info.Size)
	}

	c.Clear()
	if got := c.Info(); got.Hits != 0 || got.Misses != 0 || got.Size != 0 {
		t.Fatalf("clear should reset observed cache too, got %v", got)
	}
}
