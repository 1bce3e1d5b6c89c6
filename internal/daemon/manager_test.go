// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/radionara/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testServerConfig() config.ServerConfig {
	cfg := config.Defaults().Server
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.ShutdownTimeout = 2 * time.Second
	return cfg
}

func startManager(t *testing.T, deps Deps) (*manager, context.CancelFunc, <-chan error) {
	t.Helper()
	mgr, err := NewManager(testServerConfig(), deps)
	require.NoError(t, err)
	m := mgr.(*manager)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()

	select {
	case <-m.ready:
	case err := <-done:
		cancel()
		t.Fatalf("manager failed to start: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("manager did not become ready")
	}
	return m, cancel, done
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestNewManager_RequiresHandler(t *testing.T) {
	_, err := NewManager(testServerConfig(), Deps{})
	assert.ErrorIs(t, err, ErrMissingAPIHandler)
}

func TestManager_ServesAndStops(t *testing.T) {
	deps := Deps{
		Logger: zerolog.Nop(),
		APIHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "api")
		}),
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "metrics")
		}),
		MetricsAddr: "127.0.0.1:0",
	}
	m, cancel, done := startManager(t, deps)

	code, body := get(t, "http://"+m.apiAddr.String()+"/")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "api", body)

	_, body = get(t, "http://"+m.metricsAddr.String()+"/metrics")
	assert.Equal(t, "metrics", body)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("manager did not stop")
	}
}

func TestManager_ShutdownHooksRunLIFO(t *testing.T) {
	deps := Deps{Logger: zerolog.Nop(), APIHandler: http.NotFoundHandler()}
	var order []string
	mgr, err := NewManager(testServerConfig(), deps)
	require.NoError(t, err)
	mgr.RegisterShutdownHook("first", func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	mgr.RegisterShutdownHook("second", func(context.Context) error {
		order = append(order, "second")
		return errors.New("flush failed")
	})

	m := mgr.(*manager)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()
	<-m.ready
	cancel()

	err = <-done
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hook second")
	assert.Equal(t, []string{"second", "first"}, order)

	assert.NoError(t, m.Shutdown(context.Background()), "second shutdown is a no-op")
}

func TestManager_StartTwice(t *testing.T) {
	m, cancel, done := startManager(t, Deps{Logger: zerolog.Nop(), APIHandler: http.NotFoundHandler()})
	assert.ErrorIs(t, m.Start(context.Background()), ErrManagerStarted)
	cancel()
	<-done
}

func TestManager_ShutdownBeforeStart(t *testing.T) {
	mgr, err := NewManager(testServerConfig(), Deps{APIHandler: http.NotFoundHandler()})
	require.NoError(t, err)
	assert.ErrorIs(t, mgr.Shutdown(context.Background()), ErrManagerNotStarted)
}

func TestManager_BindFailure(t *testing.T) {
	first, cancel, done := startManager(t, Deps{Logger: zerolog.Nop(), APIHandler: http.NotFoundHandler()})
	defer func() {
		cancel()
		<-done
	}()

	cfg := testServerConfig()
	cfg.ListenAddr = first.apiAddr.String()
	mgr, err := NewManager(cfg, Deps{Logger: zerolog.Nop(), APIHandler: http.NotFoundHandler()})
	require.NoError(t, err)

	err = mgr.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start API server")
}

func TestApp_RequiresManager(t *testing.T) {
	assert.ErrorIs(t, NewApp(zerolog.Nop(), nil, nil).Run(context.Background()), ErrMissingManager)
}
