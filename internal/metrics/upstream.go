// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package metrics holds the Prometheus collectors of the radionara gateway.
// Labels are bounded enums only; never put URLs or station ids into labels.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream attempt results.
const (
	AttemptOK      = "ok"
	AttemptFailed  = "failed"
	AttemptErrored = "errored"
)

var (
	// UpstreamAttemptsTotal counts candidate fetches by scheme and result.
	UpstreamAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radionara_upstream_attempts_total",
		Help: "Upstream fetch attempts by candidate scheme and result (ok, failed, errored)",
	}, []string{"scheme", "result"})

	// UpstreamFetchDuration tracks the wall time of a full fetch including fallbacks.
	UpstreamFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "radionara_upstream_fetch_duration_seconds",
		Help:    "Duration of upstream fetches including protocol fallback",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"op"})
)

// RecordUpstreamAttempt records one candidate attempt.
func RecordUpstreamAttempt(scheme, result string) {
	UpstreamAttemptsTotal.WithLabelValues(scheme, result).Inc()
}

// ObserveUpstreamFetch records the duration of a fetch operation.
func ObserveUpstreamFetch(op string, d time.Duration) {
	UpstreamFetchDuration.WithLabelValues(op).Observe(d.Seconds())
}
