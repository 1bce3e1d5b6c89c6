// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestConfigure_AttachesServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "radionara-test", Version: "v0.0.1"})
	t.Cleanup(func() { Configure(Config{}) })

	l := WithComponent("hls")
	l.Info().Str(FieldEvent, "test.event").Msg("hello")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "radionara-test", entries[0][FieldService])
	assert.Equal(t, "v0.0.1", entries[0][FieldVersion])
	assert.Equal(t, "hls", entries[0][FieldComponent])
	assert.Equal(t, "test.event", entries[0][FieldEvent])
}

func TestMiddleware_LogsStatusAndBytes(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "info", Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/stream?radio=r1", nil)
	req = req.WithContext(ContextWithRequestID(req.Context(), "rid-1"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "request.handled", e[FieldEvent])
	assert.Equal(t, "/api/stream", e[FieldPath])
	assert.EqualValues(t, http.StatusTeapot, e[FieldStatus])
	assert.EqualValues(t, len("short and stout"), e[FieldBytes])
	assert.Equal(t, "rid-1", e[FieldRequestID])
	assert.Equal(t, "warn", e["level"])
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { Configure(Config{}) })

	require.NoError(t, SetLevel("WARN"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	require.Error(t, SetLevel("loud"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel(), "invalid level keeps the previous one")
}

func TestConfigure_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Format: FormatConsole, Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	l := WithComponent("api")
	l.Info().Msg("ready")
	out := buf.String()
	assert.Contains(t, out, "ready")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "console output is not JSON")
}
