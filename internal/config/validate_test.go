// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ManuGH/radionara/internal/stations"
)

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Validate(Defaults()))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		field  string
	}{
		{"listen addr", func(c *AppConfig) { c.Server.ListenAddr = "8080" }, "server.listen_addr"},
		{"negative timeout", func(c *AppConfig) { c.Upstream.Timeout = -1 }, "upstream.timeout"},
		{"proxy path", func(c *AppConfig) { c.Proxy.Path = "api/hls" }, "proxy.path"},
		{"allowed domain", func(c *AppConfig) { c.Proxy.AllowedDomain = "" }, "proxy.allowed_domain"},
		{"manifest limit", func(c *AppConfig) { c.Proxy.MaxManifestBytes = 0 }, "proxy.max_manifest_bytes"},
		{"province url", func(c *AppConfig) { c.Directory.ProvinceURL = "ftp://x" }, "directory.province_url"},
		{"search placeholder", func(c *AppConfig) {
			c.Directory.SearchTerms = []string{"CBS"}
			c.Directory.SearchURL = "https://sradio365.com/search"
		}, "directory.search_url"},
		{"catalog id format", func(c *AppConfig) {
			c.Catalog.Stations = []stations.Curated{{
				Station:   stations.Station{ID: "r123"},
				StreamURL: "https://m-aac.cbs.co.kr/a.m3u8",
			}}
		}, "catalog.stations"},
		{"sampling", func(c *AppConfig) { c.Telemetry.SamplingRate = 2 }, "telemetry.sampling_rate"},
		{"exporter", func(c *AppConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.Exporter = "zipkin"
		}, "telemetry.exporter"},
		{"rate", func(c *AppConfig) { c.RateLimit.RequestsPerMinute = 0 }, "ratelimit.requests_per_minute"},
		{"whitelist", func(c *AppConfig) { c.RateLimit.Whitelist = []string{"not-an-ip"} }, "ratelimit.whitelist"},
		{"log level", func(c *AppConfig) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.field)
			}
		})
	}
}

func TestValidate_DisabledSectionsSkipped(t *testing.T) {
	cfg := Defaults()
	cfg.Metrics.Enabled = false
	cfg.Metrics.ListenAddr = ""
	cfg.RateLimit.Enabled = false
	cfg.RateLimit.RequestsPerMinute = 0
	assert.NoError(t, Validate(cfg))
}

func TestValidate_Pacing(t *testing.T) {
	cfg := Defaults()
	cfg.Upstream.RequestsPerSecond = 5
	cfg.Upstream.Burst = 0
	err := Validate(cfg)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "upstream.burst")
	}

	cfg.Upstream.RequestsPerSecond = 0
	assert.NoError(t, Validate(cfg), "burst is irrelevant without pacing")
}
