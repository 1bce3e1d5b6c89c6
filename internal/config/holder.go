// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	xglog "github.com/ManuGH/radionara/internal/log"
	"github.com/ManuGH/radionara/internal/metrics"
)

// Reload triggers.
const (
	TriggerFile   = "file"
	TriggerSignal = "signal"
	TriggerManual = "manual"
)

const reloadDebounce = 500 * time.Millisecond

// Listener is called synchronously after a successful reload.
type Listener func(AppConfig)

// Holder keeps the current configuration and swaps it on reload.
// A failed reload leaves the previous configuration in place.
type Holder struct {
	mu      sync.RWMutex
	current AppConfig
	loader  *Loader
	logger  zerolog.Logger

	listenersMu sync.RWMutex
	listeners   []Listener

	debounce time.Duration
}

// NewHolder creates a holder around an already loaded configuration.
func NewHolder(initial AppConfig, loader *Loader) *Holder {
	return &Holder{
		current:  initial,
		loader:   loader,
		logger:   xglog.WithComponent("config"),
		debounce: reloadDebounce,
	}
}

// Get returns the current configuration.
func (h *Holder) Get() AppConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// OnReload registers fn to receive every successfully reloaded configuration.
func (h *Holder) OnReload(fn Listener) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Reload loads and validates the configuration again and applies it.
func (h *Holder) Reload(_ context.Context, trigger string) error {
	h.logger.Info().Str(xglog.FieldEvent, "config.reload_start").Str("trigger", trigger).
		Msg("reloading configuration")

	next, err := h.loader.Load()
	if err != nil {
		metrics.RecordConfigReload(trigger, err)
		h.logger.Error().Err(err).Str(xglog.FieldEvent, "config.reload_failed").
			Str("trigger", trigger).Msg("keeping previous configuration")
		return fmt.Errorf("reload config: %w", err)
	}

	h.mu.Lock()
	prev := h.current
	h.current = next
	h.mu.Unlock()

	h.logRestartRequired(prev, next)
	h.notify(next)
	metrics.RecordConfigReload(trigger, nil)

	h.logger.Info().Str(xglog.FieldEvent, "config.reload_success").Str("trigger", trigger).
		Msg("configuration reloaded")
	return nil
}

func (h *Holder) notify(cfg AppConfig) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()
	for _, fn := range h.listeners {
		fn(cfg)
	}
}

// logRestartRequired warns about changed settings that only apply at startup.
func (h *Holder) logRestartRequired(prev, next AppConfig) {
	changed := func(field string, a, b any) {
		if a != b {
			h.logger.Warn().Str("field", field).Interface("old", a).Interface("new", b).
				Str(xglog.FieldEvent, "config.restart_required").
				Msg("setting changed but only applies after restart")
		}
	}
	changed("server.listen_addr", prev.Server.ListenAddr, next.Server.ListenAddr)
	changed("metrics.listen_addr", prev.Metrics.ListenAddr, next.Metrics.ListenAddr)
	changed("proxy.path", prev.Proxy.Path, next.Proxy.Path)
	changed("proxy.allowed_domain", prev.Proxy.AllowedDomain, next.Proxy.AllowedDomain)
	changed("upstream.timeout", prev.Upstream.Timeout, next.Upstream.Timeout)
	changed("upstream.requests_per_second", prev.Upstream.RequestsPerSecond, next.Upstream.RequestsPerSecond)
	changed("upstream.burst", prev.Upstream.Burst, next.Upstream.Burst)
	changed("log.format", prev.Log.Format, next.Log.Format)
	changed("telemetry.enabled", prev.Telemetry.Enabled, next.Telemetry.Enabled)
}

// Watch reloads the configuration whenever the config file changes, until
// ctx is canceled. It watches the parent directory so editors that replace
// the file by rename are picked up. Without a config file it waits for ctx.
func (h *Holder) Watch(ctx context.Context) error {
	path := h.loader.Path()
	if path == "" {
		h.logger.Info().Str(xglog.FieldEvent, "config.watcher_disabled").
			Msg("config file watcher disabled (environment-only configuration)")
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch config dir: %w", err)
	}
	h.logger.Info().Str(xglog.FieldEvent, "config.watcher_started").Str("path", path).
		Msg("watching config file for changes")

	timer := time.NewTimer(h.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str(xglog.FieldEvent, "config.watcher_stopped").Msg("config watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			h.logger.Debug().Str(xglog.FieldEvent, "config.file_changed").Str("op", event.Op.String()).
				Msg("config file changed")
			timer.Reset(h.debounce)

		case <-timer.C:
			if err := h.Reload(ctx, TriggerFile); err != nil {
				h.logger.Error().Err(err).Str(xglog.FieldEvent, "config.auto_reload_failed").
					Msg("automatic config reload failed")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			h.logger.Error().Err(err).Str(xglog.FieldEvent, "config.watcher_error").
				Msg("config watcher error")
		}
	}
}
