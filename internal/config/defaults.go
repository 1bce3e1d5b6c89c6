// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"time"

	"github.com/ManuGH/radionara/internal/hls"
	"github.com/ManuGH/radionara/internal/resolver"
	"github.com/ManuGH/radionara/internal/stations"
	"github.com/ManuGH/radionara/internal/upstream"
)

// Default listing source.
const (
	DefaultProvinceName = "서울특별시"
	DefaultProvinceURL  = "https://sradio365.com/province/%EC%84%9C%EC%9A%B8%ED%8A%B9%EB%B3%84%EC%8B%9C"
	DefaultSearchURL    = "https://sradio365.com/search?q={query}"
	DefaultAllowedHost  = "cbs.co.kr"
)

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			ListenAddr:        ":8080",
			ReadTimeout:       60 * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      0,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20,
			ShutdownTimeout:   15 * time.Second,
		},
		Upstream: UpstreamConfig{
			Timeout:           0,
			MaxRedirects:      10,
			RequestsPerSecond: 10,
			Burst:             20,
			UserAgent:         upstream.DefaultUserAgent,
			SiteURL:           stations.DefaultSiteURL,
			StreamEndpoint:    resolver.DefaultEndpoint,
		},
		Proxy: ProxyConfig{
			Path:             hls.DefaultProxyPath,
			AllowedDomain:    DefaultAllowedHost,
			MaxManifestBytes: 4 << 20,
		},
		Directory: DirectoryConfig{
			ProvinceName:   DefaultProvinceName,
			ProvinceURL:    DefaultProvinceURL,
			SearchURL:      DefaultSearchURL,
			IncludeCurated: false,
		},
		Catalog: CatalogConfig{
			Stations: stations.DefaultEntries(),
		},
		Metrics: MetricsConfig{
			Enabled:    true,
			ListenAddr: ":9090",
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			Insecure:     true,
			SamplingRate: 0.1,
			Environment:  "production",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 600,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
