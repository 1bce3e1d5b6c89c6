// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package log provides structured logging utilities.
package log

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	stationIDKey
)

// ContextWithRequestID returns ctx carrying the request ID. A nil ctx is
// treated as context.Background.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return withValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID carried by ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// ContextWithStationID returns ctx carrying the station a request resolves.
func ContextWithStationID(ctx context.Context, id string) context.Context {
	return withValue(ctx, stationIDKey, id)
}

// StationIDFromContext returns the station ID carried by ctx, or "".
func StationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, stationIDKey)
}

func withValue(ctx context.Context, key ctxKey, v string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, v)
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// WithContext adds the request ID, station ID and trace ID found in ctx to
// logger. Absent values are omitted.
func WithContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	if ctx == nil {
		return logger
	}
	lc := logger.With()
	added := false
	if rid := RequestIDFromContext(ctx); rid != "" {
		lc = lc.Str(FieldRequestID, rid)
		added = true
	}
	if sid := StationIDFromContext(ctx); sid != "" {
		lc = lc.Str(FieldStationID, sid)
		added = true
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		lc = lc.Str(FieldTraceID, sc.TraceID().String())
		added = true
	}
	if !added {
		return logger
	}
	return lc.Logger()
}

// WithComponentFromContext is WithComponent enriched by WithContext.
func WithComponentFromContext(ctx context.Context, component string) zerolog.Logger {
	return WithContext(ctx, WithComponent(component))
}
