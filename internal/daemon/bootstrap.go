// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ManuGH/radionara/internal/api"
	"github.com/ManuGH/radionara/internal/api/middleware"
	"github.com/ManuGH/radionara/internal/config"
	"github.com/ManuGH/radionara/internal/directory"
	"github.com/ManuGH/radionara/internal/health"
	xglog "github.com/ManuGH/radionara/internal/log"
	"github.com/ManuGH/radionara/internal/platform/httpx"
	platformnet "github.com/ManuGH/radionara/internal/platform/net"
	"github.com/ManuGH/radionara/internal/proxy"
	"github.com/ManuGH/radionara/internal/resolver"
	"github.com/ManuGH/radionara/internal/stations"
	"github.com/ManuGH/radionara/internal/telemetry"
	"github.com/ManuGH/radionara/internal/upstream"
)

// ServiceName identifies the process in logs and traces.
const ServiceName = "radionara"

// Runtime is the wired service graph built from one configuration.
type Runtime struct {
	Manager   Manager
	App       *App
	Directory *directory.Service
	Resolver  *resolver.Resolver
	Health    *health.Manager
	Telemetry *telemetry.Provider
	Handler   http.Handler
}

// Bootstrap builds every component from the holder's current configuration,
// registers reload listeners and shutdown hooks, and returns the runtime.
func Bootstrap(ctx context.Context, holder *config.Holder) (*Runtime, error) {
	cfg := holder.Get()
	logger := xglog.WithComponent("daemon")

	if cfg.Upstream.Timeout == 0 {
		logger.Warn().
			Str(xglog.FieldEvent, "config.no_upstream_timeout").
			Msg("upstream.timeout is 0: outbound requests only end when the client disconnects")
	}

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    ServiceName,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Telemetry.Environment,
		Exporter:       cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	policy, err := platformnet.NewHostPolicy(cfg.Proxy.AllowedDomain)
	if err != nil {
		return nil, err
	}
	catalog, err := stations.NewCatalog(cfg.Catalog.Stations)
	if err != nil {
		return nil, fmt.Errorf("curated catalog: %w", err)
	}

	client := upstream.NewClient(
		httpx.NewClient(httpx.Options{
			Timeout:      cfg.Upstream.Timeout,
			MaxRedirects: cfg.Upstream.MaxRedirects,
			Traced:       tp.Enabled(),
		}),
		upstream.BaseHeaders(cfg.Upstream.UserAgent),
	)
	if cfg.Upstream.RequestsPerSecond > 0 {
		// HLS fetches are never paced.
		client.WithPacing(rate.NewLimiter(rate.Limit(cfg.Upstream.RequestsPerSecond), cfg.Upstream.Burst),
			upstream.OpDirectory, upstream.OpStream)
	}

	dir := directory.New(directoryConfig(cfg), client, exclusions(cfg), catalog)
	res := resolver.New(resolver.Config{
		Endpoint:  cfg.Upstream.StreamEndpoint,
		ProxyPath: cfg.Proxy.Path,
	}, client, policy, catalog)
	hlsHandler := proxy.NewHandler(proxy.Config{
		ProxyPath:        cfg.Proxy.Path,
		SiteOrigin:       siteOrigin(cfg.Upstream.SiteURL),
		MaxManifestBytes: cfg.Proxy.MaxManifestBytes,
	}, policy, client)

	hm := health.NewManager(cfg.Version)
	hm.RegisterChecker(health.CheckerFunc{
		ComponentName: "config",
		Fn: func(context.Context) health.CheckResult {
			if err := config.Validate(holder.Get()); err != nil {
				return health.CheckResult{Status: health.StatusUnhealthy, Error: err.Error()}
			}
			return health.CheckResult{Status: health.StatusHealthy}
		},
	})

	tracingService := ""
	if tp.Enabled() {
		tracingService = ServiceName
	}
	handler := api.NewRouter(api.Config{
		ProxyPath: cfg.Proxy.Path,
		Stack: middleware.StackConfig{
			EnableCORS:            true,
			AllowedOrigins:        cfg.CORS.AllowedOrigins,
			EnableSecurityHeaders: true,
			EnableMetrics:         cfg.Metrics.Enabled,
			TracingService:        tracingService,
			EnableLogging:         true,
			EnableRateLimit:       cfg.RateLimit.Enabled,
			RateLimitRequests:     cfg.RateLimit.RequestsPerMinute,
			RateLimitWindow:       time.Minute,
			RateLimitWhitelist:    cfg.RateLimit.Whitelist,
		},
	}, api.Deps{
		Channels: dir,
		Streams:  res,
		HLS:      hlsHandler,
		Health:   hm,
	})

	deps := Deps{Logger: logger, APIHandler: handler}
	if cfg.Metrics.Enabled {
		deps.MetricsHandler = promhttp.Handler()
		deps.MetricsAddr = cfg.Metrics.ListenAddr
	}
	mgr, err := NewManager(cfg.Server, deps)
	if err != nil {
		return nil, err
	}
	mgr.RegisterShutdownHook("telemetry", tp.Shutdown)

	holder.OnReload(applyReload(logger, dir, res))

	return &Runtime{
		Manager:   mgr,
		App:       NewApp(logger, mgr, holder),
		Directory: dir,
		Resolver:  res,
		Health:    hm,
		Telemetry: tp,
		Handler:   handler,
	}, nil
}

// applyReload pushes reloadable settings into the running components.
func applyReload(logger zerolog.Logger, dir *directory.Service, res *resolver.Resolver) config.Listener {
	return func(cfg config.AppConfig) {
		dir.SetExclusions(exclusions(cfg))

		catalog, err := stations.NewCatalog(cfg.Catalog.Stations)
		if err != nil {
			// Validate already rejected this; keep the running catalog.
			logger.Error().Err(err).Str(xglog.FieldEvent, "config.catalog_rejected").
				Msg("keeping previous curated catalog")
		} else {
			dir.SetCatalog(catalog)
			res.SetCatalog(catalog)
		}

		if err := xglog.SetLevel(cfg.Log.Level); err != nil {
			logger.Warn().Err(err).Str(xglog.FieldEvent, "config.log_level_rejected").Msg("keeping previous log level")
		}
		logger.Info().
			Str(xglog.FieldEvent, "config.applied").
			Int("excluded_ids", len(cfg.Exclusions.IDs)).
			Int("excluded_keywords", len(cfg.Exclusions.Keywords)).
			Int("curated", len(cfg.Catalog.Stations)).
			Msg("reloadable settings applied")
	}
}

func directoryConfig(cfg config.AppConfig) directory.Config {
	return directory.Config{
		SiteURL:        cfg.Upstream.SiteURL,
		ProvinceName:   cfg.Directory.ProvinceName,
		ProvinceURL:    cfg.Directory.ProvinceURL,
		SearchURL:      cfg.Directory.SearchURL,
		SearchTerms:    cfg.Directory.SearchTerms,
		IncludeCurated: cfg.Directory.IncludeCurated,
	}
}

func exclusions(cfg config.AppConfig) directory.Exclusions {
	return directory.Exclusions{
		IDs:      cfg.Exclusions.IDs,
		Keywords: cfg.Exclusions.Keywords,
		Images:   cfg.Exclusions.Images,
	}
}

// siteOrigin reduces the site URL to scheme://host for Referer and Origin headers.
func siteOrigin(site string) string {
	u, ok := platformnet.ParseHTTPURL(site)
	if !ok {
		return upstream.DefaultSiteOrigin
	}
	return u.Scheme + "://" + u.Host
}
