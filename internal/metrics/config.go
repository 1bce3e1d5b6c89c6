// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	configReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radionara_config_reloads_total",
		Help: "Configuration reloads by trigger (file, signal) and result",
	}, []string{"trigger", "result"})

	configLastReload = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "radionara_config_last_reload_timestamp_seconds",
		Help: "Unix time of the last successful configuration reload",
	})
)

// RecordConfigReload records a reload attempt.
func RecordConfigReload(trigger string, err error) {
	if err != nil {
		configReloadsTotal.WithLabelValues(trigger, "error").Inc()
		return
	}
	configReloadsTotal.WithLabelValues(trigger, "ok").Inc()
	configLastReload.SetToCurrentTime()
}
