// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ManuGH/radionara/internal/directory"
	platformnet "github.com/ManuGH/radionara/internal/platform/net"
	"github.com/ManuGH/radionara/internal/stations"
)

// Validate reports every problem found in cfg, joined into one error.
func Validate(cfg AppConfig) error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %s", field, fmt.Sprintf(format, args...)))
	}

	if err := validateListenAddr(cfg.Server.ListenAddr); err != nil {
		add("server.listen_addr", "%v", err)
	}
	if cfg.Server.MaxHeaderBytes < 0 {
		add("server.max_header_bytes", "must not be negative")
	}
	for name, d := range map[string]int64{
		"server.read_timeout":        int64(cfg.Server.ReadTimeout),
		"server.read_header_timeout": int64(cfg.Server.ReadHeaderTimeout),
		"server.write_timeout":       int64(cfg.Server.WriteTimeout),
		"server.idle_timeout":        int64(cfg.Server.IdleTimeout),
		"server.shutdown_timeout":    int64(cfg.Server.ShutdownTimeout),
		"upstream.timeout":           int64(cfg.Upstream.Timeout),
	} {
		if d < 0 {
			add(name, "must not be negative")
		}
	}

	if cfg.Upstream.MaxRedirects < 0 {
		add("upstream.max_redirects", "must not be negative")
	}
	if cfg.Upstream.RequestsPerSecond < 0 {
		add("upstream.requests_per_second", "must not be negative")
	}
	if cfg.Upstream.RequestsPerSecond > 0 && cfg.Upstream.Burst < 1 {
		add("upstream.burst", "must be at least 1 when pacing is enabled")
	}
	if _, ok := platformnet.ParseHTTPURL(cfg.Upstream.SiteURL); !ok {
		add("upstream.site_url", "invalid http(s) URL %q", cfg.Upstream.SiteURL)
	}
	if _, ok := platformnet.ParseHTTPURL(cfg.Upstream.StreamEndpoint); !ok {
		add("upstream.stream_endpoint", "invalid http(s) URL %q", cfg.Upstream.StreamEndpoint)
	}

	if !strings.HasPrefix(cfg.Proxy.Path, "/") {
		add("proxy.path", "must start with /")
	}
	if _, err := platformnet.NewHostPolicy(cfg.Proxy.AllowedDomain); err != nil {
		add("proxy.allowed_domain", "%v", err)
	}
	if cfg.Proxy.MaxManifestBytes <= 0 {
		add("proxy.max_manifest_bytes", "must be positive")
	}

	if _, ok := platformnet.ParseHTTPURL(cfg.Directory.ProvinceURL); !ok {
		add("directory.province_url", "invalid http(s) URL %q", cfg.Directory.ProvinceURL)
	}
	if len(cfg.Directory.SearchTerms) > 0 && !strings.Contains(cfg.Directory.SearchURL, directory.SearchPlaceholder) {
		add("directory.search_url", "must contain %s when search_terms are set", directory.SearchPlaceholder)
	}

	if _, err := stations.NewCatalog(cfg.Catalog.Stations); err != nil {
		add("catalog.stations", "%v", err)
	}

	if cfg.Metrics.Enabled {
		if err := validateListenAddr(cfg.Metrics.ListenAddr); err != nil {
			add("metrics.listen_addr", "%v", err)
		}
	}

	if cfg.Telemetry.Enabled {
		switch cfg.Telemetry.Exporter {
		case "grpc", "http":
		default:
			add("telemetry.exporter", "must be grpc or http, got %q", cfg.Telemetry.Exporter)
		}
		if cfg.Telemetry.Endpoint == "" {
			add("telemetry.endpoint", "required when telemetry is enabled")
		}
	}
	if r := cfg.Telemetry.SamplingRate; r < 0 || r > 1 {
		add("telemetry.sampling_rate", "must be within [0, 1], got %v", r)
	}

	if cfg.RateLimit.Enabled && cfg.RateLimit.RequestsPerMinute <= 0 {
		add("ratelimit.requests_per_minute", "must be positive when enabled")
	}
	for _, w := range cfg.RateLimit.Whitelist {
		if net.ParseIP(w) == nil {
			if _, _, err := net.ParseCIDR(w); err != nil {
				add("ratelimit.whitelist", "invalid IP or CIDR %q", w)
			}
		}
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err != nil {
		add("log.level", "%v", err)
	}
	switch cfg.Log.Format {
	case "json", "console":
	default:
		add("log.format", "must be json or console, got %q", cfg.Log.Format)
	}

	return errors.Join(errs...)
}

func validateListenAddr(addr string) error {
	if addr == "" {
		return errors.New("must not be empty")
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	if port == "" {
		return errors.New("missing port")
	}
	return nil
}
