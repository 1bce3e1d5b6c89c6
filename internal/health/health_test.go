// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(name string, status Status) Checker {
	return CheckerFunc{ComponentName: name, Fn: func(context.Context) CheckResult {
		return CheckResult{Status: status}
	}}
}

func TestReady_NoCheckers(t *testing.T) {
	resp := NewManager("v1").Ready(context.Background())
	require.NotNil(t, resp.Ready)
	assert.True(t, *resp.Ready)
	assert.Equal(t, StatusHealthy, resp.Status)
}

func TestReady_Aggregation(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []Status
		want      Status
		wantReady bool
	}{
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy, true},
		{"degraded stays ready", []Status{StatusHealthy, StatusDegraded}, StatusDegraded, true},
		{"unhealthy wins over degraded", []Status{StatusUnhealthy, StatusDegraded}, StatusUnhealthy, false},
		{"degraded after unhealthy", []Status{StatusDegraded, StatusUnhealthy, StatusDegraded}, StatusUnhealthy, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager("v1")
			for i, s := range tt.statuses {
				m.RegisterChecker(fixed(string(rune('a'+i)), s))
			}
			resp := m.Ready(context.Background())
			assert.Equal(t, tt.want, resp.Status)
			assert.Equal(t, tt.wantReady, *resp.Ready)
			assert.Len(t, resp.Checks, len(tt.statuses))
		})
	}
}

func TestHealth_LivenessIgnoresChecksUnlessVerbose(t *testing.T) {
	m := NewManager("v1")
	m.RegisterChecker(fixed("config", StatusUnhealthy))

	resp := m.Health(context.Background(), false)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Nil(t, resp.Checks)

	resp = m.Health(context.Background(), true)
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Contains(t, resp.Checks, "config")
}

func TestServeReady(t *testing.T) {
	m := NewManager("v1")
	rec := httptest.NewRecorder()
	m.ServeReady(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	m.RegisterChecker(fixed("config", StatusUnhealthy))
	rec = httptest.NewRecorder()
	m.ServeReady(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, *body.Ready)
	assert.Equal(t, StatusUnhealthy, body.Checks["config"].Status)
}

func TestServeHealth(t *testing.T) {
	m := NewManager("v1.2.3")
	rec := httptest.NewRecorder()
	m.ServeHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "v1.2.3", body.Version)
	assert.Nil(t, body.Ready)
}
