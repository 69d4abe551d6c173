/*
 * gperf2flame - gperftools CPU profile to flamegraph converter
 * Copyright (c) 2026 Edilson Freitas
 * License: MIT
 */
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ConverterMetrics holds Prometheus metrics for watch-mode conversions.
type ConverterMetrics struct {
	Conversions *prometheus.CounterVec
	Duration    prometheus.Histogram
	LastSamples prometheus.Gauge
	LastStacks  prometheus.Gauge
	uptime      prometheus.GaugeFunc
}

// NewConverterMetrics creates and registers converter metrics.
// startTime is the watcher boot time used to compute uptime.
func NewConverterMetrics(startTime time.Time) *ConverterMetrics {
	return newConverterMetricsOn(Registry, startTime)
}

func newConverterMetricsOn(reg *prometheus.Registry, startTime time.Time) *ConverterMetrics {
	conversions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "converter",
		Name:      "conversions_total",
		Help:      "Profile conversions by result (success, error).",
	}, []string{"result"})

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: "converter",
		Name:      "conversion_duration_seconds",
		Help:      "Wall time of a full conversion (parse, symbolize, collapse, write).",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	lastSamples := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: "converter",
		Name:      "last_profile_samples",
		Help:      "Total samples in the most recently converted profile.",
	})

	lastStacks := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: "converter",
		Name:      "last_profile_stacks",
		Help:      "Distinct collapsed stacks in the most recently converted profile.",
	})

	uptime := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: "converter",
		Name:      "uptime_seconds",
		Help:      "Watcher uptime in seconds.",
	}, func() float64 {
		return time.Since(startTime).Seconds()
	})

	reg.MustRegister(conversions, duration, lastSamples, lastStacks, uptime)

	return &ConverterMetrics{
		Conversions: conversions,
		Duration:    duration,
		LastSamples: lastSamples,
		LastStacks:  lastStacks,
		uptime:      uptime,
	}
}
