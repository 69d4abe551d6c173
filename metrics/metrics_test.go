package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRegistryContainsGoAndProcessCollectors(t *testing.T) {
	// The default Registry should include Go and Process collectors
	families, err := Registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather: %v", err)
	}

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}

	if !names["go_goroutines"] {
		t.Error("expected go_goroutines metric from GoCollector")
	}
	if !names["process_cpu_seconds_total"] {
		t.Error("expected process_cpu_seconds_total from ProcessCollector")
	}
}

func TestConverterMetricsRegistered(t *testing.T) {
	// Create a fresh registry to avoid conflicts with package-level init
	reg := prometheus.NewRegistry()
	m := newConverterMetricsOn(reg, time.Now())

	// Initialize metrics with at least one label set so they appear in Gather
	m.Conversions.WithLabelValues("success").Inc()
	m.Conversions.WithLabelValues("error").Inc()
	m.Duration.Observe(0.25)
	m.LastSamples.Set(100)
	m.LastStacks.Set(4)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather: %v", err)
	}

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}

	expected := []string{
		"gperf2flame_converter_conversions_total",
		"gperf2flame_converter_conversion_duration_seconds",
		"gperf2flame_converter_last_profile_samples",
		"gperf2flame_converter_last_profile_stacks",
		"gperf2flame_converter_uptime_seconds",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("expected metric %s to be registered", name)
		}
	}
}
