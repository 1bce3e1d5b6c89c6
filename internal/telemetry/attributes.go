// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import "go.opentelemetry.io/otel/attribute"

// Span attribute keys.
const (
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"

	UpstreamOpKey      = "upstream.op"
	UpstreamHostKey    = "upstream.host"
	UpstreamAttemptKey = "upstream.attempts"

	StationIDKey = "station.id"

	HLSKindKey      = "hls.kind"
	HLSRewrittenKey = "hls.rewritten"
)

// HTTPAttributes describes a served request. The route is the chi pattern,
// never the raw path, so proxied URLs stay out of span attributes.
func HTTPAttributes(method, route string, statusCode int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int(HTTPStatusCodeKey, statusCode))
	}
	return attrs
}

// UpstreamAttributes describes an upstream fetch.
func UpstreamAttributes(op, host string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(UpstreamOpKey, op),
		attribute.String(UpstreamHostKey, host),
	}
}
