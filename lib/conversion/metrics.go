// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package conversion

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records conversion outcomes and latency. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Conversions counts completed actions by action and outcome.
	// Outcome is "ok", "absent", "invalid-request", or a conversion
	// error kind such as "parse-failure".
	Conversions *prometheus.CounterVec

	// Latency observes action duration, including scope setup and
	// release.
	Latency *prometheus.HistogramVec

	// LiveReferences observes the number of managed references an
	// action held when its scope closed.
	LiveReferences prometheus.Histogram
}

// NewMetrics registers the conversion metrics with registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		Conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cedarbridge_conversions_total",
			Help: "Total conversion actions by action and outcome",
		}, []string{"action", "outcome"}),

		Latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cedarbridge_conversion_duration_seconds",
			Help:    "Duration of conversion actions",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.1},
		}, []string{"action"}),

		LiveReferences: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cedarbridge_scope_references",
			Help:    "Managed references held by an action scope when it closed",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
}

// ObserveConversion records one completed action.
func (m *Metrics) ObserveConversion(action, outcome string, d time.Duration) {
	if m != nil {
		m.Conversions.WithLabelValues(action, outcome).Inc()
		m.Latency.WithLabelValues(action).Observe(d.Seconds())
	}
}

// ObserveScope records the reference count of a closing scope.
func (m *Metrics) ObserveScope(references int) {
	if m != nil {
		m.LiveReferences.Observe(float64(references))
	}
}
