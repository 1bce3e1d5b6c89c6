// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package api exposes the station directory, stream resolution and HLS proxy over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/radionara/internal/api/middleware"
	"github.com/ManuGH/radionara/internal/directory"
	"github.com/ManuGH/radionara/internal/hls"
	"github.com/ManuGH/radionara/internal/resolver"
)

// Route paths.
const (
	PathChannels = "/api/channels"
	PathStream   = "/api/stream"
	PathHealth   = "/healthz"
	PathReady    = "/readyz"
)

// Cache directives for successful responses.
const (
	ChannelsCacheControl = "s-maxage=600, stale-while-revalidate=86400"
	StreamCacheControl   = "s-maxage=300, stale-while-revalidate=3600"
)

// ChannelLister builds the station listing. *directory.Service satisfies it.
type ChannelLister interface {
	List(ctx context.Context) (directory.Listing, error)
}

// StreamResolver resolves station ids. *resolver.Resolver satisfies it.
type StreamResolver interface {
	Resolve(ctx context.Context, id string) (resolver.Resolution, error)
}

// HealthServer serves liveness and readiness. *health.Manager satisfies it.
type HealthServer interface {
	ServeHealth(w http.ResponseWriter, r *http.Request)
	ServeReady(w http.ResponseWriter, r *http.Request)
}

// Deps are the handlers' collaborators.
type Deps struct {
	Channels ChannelLister
	Streams  StreamResolver
	HLS      http.Handler
	Health   HealthServer
}

// Config configures the router.
type Config struct {
	// ProxyPath mounts the HLS handler. Defaults to hls.DefaultProxyPath.
	ProxyPath string
	Stack     middleware.StackConfig
}

// Server holds the HTTP handlers.
type Server struct {
	channels ChannelLister
	streams  StreamResolver
}

// NewRouter builds the chi router with the middleware stack and all routes.
func NewRouter(cfg Config, deps Deps) http.Handler {
	if cfg.ProxyPath == "" {
		cfg.ProxyPath = hls.DefaultProxyPath
	}
	s := &Server{channels: deps.Channels, streams: deps.Streams}

	r := middleware.NewRouter(cfg.Stack)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	if deps.Health != nil {
		r.Get(PathHealth, deps.Health.ServeHealth)
		r.Get(PathReady, deps.Health.ServeReady)
	}
	r.Group(func(r chi.Router) {
		r.Get(PathChannels, s.handleChannels)
		r.Get(PathStream, s.handleStream)
		if deps.HLS != nil {
			r.Method(http.MethodGet, cfg.ProxyPath, deps.HLS)
		}
	})
	return r
}
