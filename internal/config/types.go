// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads the gateway configuration with precedence
// ENV > YAML file > defaults, validates it and supports hot reload.
package config

import (
	"time"

	"github.com/ManuGH/radionara/internal/stations"
)

// AppConfig is the complete runtime configuration.
type AppConfig struct {
	Version string `yaml:"-"`

	Server     ServerConfig     `yaml:"server"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Proxy      ProxyConfig      `yaml:"proxy"`
	Directory  DirectoryConfig  `yaml:"directory"`
	Exclusions ExclusionsConfig `yaml:"exclusions"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	RateLimit  RateLimitConfig  `yaml:"ratelimit"`
	CORS       CORSConfig       `yaml:"cors"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds API listener settings.
type ServerConfig struct {
	ListenAddr        string        `yaml:"listen_addr"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	// WriteTimeout stays zero by default: passthrough streams are long-lived.
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// UpstreamConfig configures outbound requests to the listing site and stream hosts.
type UpstreamConfig struct {
	// Timeout bounds a whole upstream exchange. Zero means no deadline.
	Timeout      time.Duration `yaml:"timeout"`
	MaxRedirects int           `yaml:"max_redirects"`
	// RequestsPerSecond paces requests to the listing site. Zero disables pacing.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`

	UserAgent      string `yaml:"user_agent"`
	SiteURL        string `yaml:"site_url"`
	StreamEndpoint string `yaml:"stream_endpoint"`
}

// ProxyConfig configures the HLS manifest proxy.
type ProxyConfig struct {
	Path             string `yaml:"path"`
	AllowedDomain    string `yaml:"allowed_domain"`
	MaxManifestBytes int64  `yaml:"max_manifest_bytes"`
}

// DirectoryConfig describes the station listing sources.
type DirectoryConfig struct {
	ProvinceName   string   `yaml:"province_name"`
	ProvinceURL    string   `yaml:"province_url"`
	SearchURL      string   `yaml:"search_url"`
	SearchTerms    []string `yaml:"search_terms,omitempty"`
	IncludeCurated bool     `yaml:"include_curated"`
}

// ExclusionsConfig lists stations never served by the directory.
type ExclusionsConfig struct {
	IDs      []string `yaml:"ids,omitempty"`
	Keywords []string `yaml:"keywords,omitempty"`
	Images   []string `yaml:"images,omitempty"`
}

// CatalogConfig holds the curated stations streamed without upstream lookup.
type CatalogConfig struct {
	Stations []stations.Curated `yaml:"stations"`
}

// MetricsConfig configures the Prometheus listener.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	Insecure     bool    `yaml:"insecure"`
	SamplingRate float64 `yaml:"sampling_rate"`
	Environment  string  `yaml:"environment"`
}

// RateLimitConfig configures per-client request limiting.
type RateLimitConfig struct {
	Enabled           bool     `yaml:"enabled"`
	RequestsPerMinute int      `yaml:"requests_per_minute"`
	Whitelist         []string `yaml:"whitelist,omitempty"`
}

// CORSConfig lists origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
	// Format is "json" or "console".
	Format string `yaml:"format"`
}
