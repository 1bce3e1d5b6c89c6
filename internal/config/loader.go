// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for config files that are not YAML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Loader loads configuration with precedence ENV > file > defaults.
type Loader struct {
	configPath string
	version    string
	// ConsumedEnvKeys records every environment key the loader consulted.
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a loader. An empty configPath skips the file layer.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Path returns the config file path, possibly empty.
func (l *Loader) Path() string { return l.configPath }

func (l *Loader) envString(key, def string) string {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseString(EnvPrefix+key, def)
}

func (l *Loader) envStrings(key string, def []string) []string {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseStringSlice(EnvPrefix+key, def)
}

func (l *Loader) envBool(key string, def bool) bool {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseBool(EnvPrefix+key, def)
}

func (l *Loader) envInt(key string, def int) int {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseInt(EnvPrefix+key, def)
}

func (l *Loader) envInt64(key string, def int64) int64 {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseInt64(EnvPrefix+key, def)
}

func (l *Loader) envDuration(key string, def time.Duration) time.Duration {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseDuration(EnvPrefix+key, def)
}

func (l *Loader) envFloat(key string, def float64) float64 {
	l.ConsumedEnvKeys[EnvPrefix+key] = struct{}{}
	return ParseFloat(EnvPrefix+key, def)
}

// Load builds the effective configuration: defaults, then the YAML file
// decoded on top of them, then environment overrides. The result is validated.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnv(&cfg)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes a single YAML document into cfg. Unknown keys are fatal.
func loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("%w: %q (only YAML supported)", ErrUnsupportedFormat, ext)
	}

	// #nosec G304 -- the config path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("config file contains multiple documents or trailing content")
	}
	return nil
}

func (l *Loader) mergeEnv(cfg *AppConfig) {
	s := &cfg.Server
	s.ListenAddr = l.envString("LISTEN_ADDR", s.ListenAddr)
	s.ReadTimeout = l.envDuration("SERVER_READ_TIMEOUT", s.ReadTimeout)
	s.ReadHeaderTimeout = l.envDuration("SERVER_READ_HEADER_TIMEOUT", s.ReadHeaderTimeout)
	s.WriteTimeout = l.envDuration("SERVER_WRITE_TIMEOUT", s.WriteTimeout)
	s.IdleTimeout = l.envDuration("SERVER_IDLE_TIMEOUT", s.IdleTimeout)
	s.MaxHeaderBytes = l.envInt("SERVER_MAX_HEADER_BYTES", s.MaxHeaderBytes)
	s.ShutdownTimeout = l.envDuration("SERVER_SHUTDOWN_TIMEOUT", s.ShutdownTimeout)

	u := &cfg.Upstream
	u.Timeout = l.envDuration("UPSTREAM_TIMEOUT", u.Timeout)
	u.MaxRedirects = l.envInt("UPSTREAM_MAX_REDIRECTS", u.MaxRedirects)
	u.RequestsPerSecond = l.envFloat("UPSTREAM_RPS", u.RequestsPerSecond)
	u.Burst = l.envInt("UPSTREAM_BURST", u.Burst)
	u.UserAgent = l.envString("UPSTREAM_USER_AGENT", u.UserAgent)
	u.SiteURL = l.envString("UPSTREAM_SITE_URL", u.SiteURL)
	u.StreamEndpoint = l.envString("UPSTREAM_STREAM_ENDPOINT", u.StreamEndpoint)

	p := &cfg.Proxy
	p.Path = l.envString("PROXY_PATH", p.Path)
	p.AllowedDomain = l.envString("PROXY_ALLOWED_DOMAIN", p.AllowedDomain)
	p.MaxManifestBytes = l.envInt64("PROXY_MAX_MANIFEST_BYTES", p.MaxManifestBytes)

	d := &cfg.Directory
	d.ProvinceName = l.envString("DIRECTORY_PROVINCE_NAME", d.ProvinceName)
	d.ProvinceURL = l.envString("DIRECTORY_PROVINCE_URL", d.ProvinceURL)
	d.SearchURL = l.envString("DIRECTORY_SEARCH_URL", d.SearchURL)
	d.SearchTerms = l.envStrings("DIRECTORY_SEARCH_TERMS", d.SearchTerms)
	d.IncludeCurated = l.envBool("DIRECTORY_INCLUDE_CURATED", d.IncludeCurated)

	e := &cfg.Exclusions
	e.IDs = l.envStrings("EXCLUDE_IDS", e.IDs)
	e.Keywords = l.envStrings("EXCLUDE_KEYWORDS", e.Keywords)
	e.Images = l.envStrings("EXCLUDE_IMAGES", e.Images)

	cfg.Metrics.Enabled = l.envBool("METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Metrics.ListenAddr = l.envString("METRICS_LISTEN_ADDR", cfg.Metrics.ListenAddr)

	t := &cfg.Telemetry
	t.Enabled = l.envBool("TELEMETRY_ENABLED", t.Enabled)
	t.Exporter = l.envString("TELEMETRY_EXPORTER", t.Exporter)
	t.Endpoint = l.envString("TELEMETRY_ENDPOINT", t.Endpoint)
	t.Insecure = l.envBool("TELEMETRY_INSECURE", t.Insecure)
	t.SamplingRate = l.envFloat("TELEMETRY_SAMPLING_RATE", t.SamplingRate)
	t.Environment = l.envString("TELEMETRY_ENVIRONMENT", t.Environment)

	r := &cfg.RateLimit
	r.Enabled = l.envBool("RATELIMIT_ENABLED", r.Enabled)
	r.RequestsPerMinute = l.envInt("RATELIMIT_RPM", r.RequestsPerMinute)
	r.Whitelist = l.envStrings("RATELIMIT_WHITELIST", r.Whitelist)

	cfg.CORS.AllowedOrigins = l.envStrings("CORS_ALLOWED_ORIGINS", cfg.CORS.AllowedOrigins)
	cfg.Log.Level = l.envString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = l.envString("LOG_FORMAT", cfg.Log.Format)
}
