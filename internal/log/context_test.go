// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestContextValues(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	ctx := ContextWithRequestID(nil, "req-1")
	ctx = ContextWithStationID(ctx, "r1234")

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "r1234", StationIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
	//nolint:staticcheck // nil context is part of the contract
	assert.Empty(t, StationIDFromContext(nil))
}

func TestWithContext_AddsCorrelationFields(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("0af7651916cd43dd8448eb211c80319c")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("b7ad6b7169203331")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})

	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = ContextWithRequestID(ctx, "abc-123")
	ctx = ContextWithStationID(ctx, "cbs-music")

	var buf bytes.Buffer
	l := WithContext(ctx, zerolog.New(&buf))
	l.Info().Msg("hello")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "abc-123", entry[FieldRequestID])
	assert.Equal(t, "cbs-music", entry[FieldStationID])
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", entry[FieldTraceID])
}

func TestWithContext_NoValues(t *testing.T) {
	var buf bytes.Buffer
	l := WithContext(context.Background(), zerolog.New(&buf))
	l.Info().Msg("plain")

	entry := decodeLine(t, &buf)
	assert.NotContains(t, entry, FieldRequestID)
	assert.NotContains(t, entry, FieldStationID)
	assert.NotContains(t, entry, FieldTraceID)
}
