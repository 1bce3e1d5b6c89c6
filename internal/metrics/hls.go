// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Proxy resource kinds.
const (
	KindManifest = "manifest"
	KindSegment  = "segment"
	KindUnknown  = "unknown"
)

// Proxy outcomes.
const (
	OutcomeServed          = "served"
	OutcomeInvalidTarget   = "invalid_target"
	OutcomeUpstreamStatus  = "upstream_status"
	OutcomeRedirectBlocked = "redirect_blocked"
	OutcomeError           = "error"
)

var (
	hlsRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radionara_hls_requests_total",
		Help: "HLS proxy requests by resource kind and outcome",
	}, []string{"kind", "outcome"})

	hlsRewrittenURIs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radionara_hls_rewritten_uris_total",
		Help: "Manifest references handled by the rewriter (rewritten or kept)",
	}, []string{"result"})
)

// IncHLSRequest records a proxy request outcome.
func IncHLSRequest(kind, outcome string) {
	hlsRequestsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordManifestRewrite records rewriter counters for one manifest.
func RecordManifestRewrite(rewritten, skipped int) {
	hlsRewrittenURIs.WithLabelValues("rewritten").Add(float64(rewritten))
	hlsRewrittenURIs.WithLabelValues("kept").Add(float64(skipped))
}
