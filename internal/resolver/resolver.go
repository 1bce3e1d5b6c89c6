// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package resolver maps a station id to a playable stream URL.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/ManuGH/radionara/internal/hls"
	"github.com/ManuGH/radionara/internal/log"
	"github.com/ManuGH/radionara/internal/metrics"
	platformnet "github.com/ManuGH/radionara/internal/platform/net"
	"github.com/ManuGH/radionara/internal/stations"
	"github.com/ManuGH/radionara/internal/upstream"
)

// DefaultEndpoint is the listing site's stream lookup endpoint.
const DefaultEndpoint = "https://sradio365.com/ajax/radio.php"

var (
	// ErrInvalidID means the id is neither curated nor a directory id.
	ErrInvalidID = errors.New("invalid radio id")
	// ErrNotFound means the upstream answered without a usable stream URL.
	ErrNotFound = errors.New("stream url not found")
)

// JSONGetter performs the upstream lookup. *upstream.Client satisfies it.
type JSONGetter interface {
	GetJSON(ctx context.Context, op, rawURL string, v any) error
}

// Config configures a Resolver.
type Config struct {
	Endpoint  string
	ProxyPath string
}

// Resolution is the outcome of a successful lookup.
type Resolution struct {
	// StreamURL is what the client should play: a proxy URL when Proxied.
	StreamURL string
	// Upstream is the stream URL before any proxy wrapping.
	Upstream string
	Proxied  bool
	Curated  bool
}

// Resolver resolves station ids. The curated catalog can be swapped at runtime.
type Resolver struct {
	cfg     Config
	client  JSONGetter
	policy  platformnet.HostPolicy
	catalog atomic.Pointer[stations.Catalog]
}

// New returns a Resolver. catalog may be nil.
func New(cfg Config, client JSONGetter, policy platformnet.HostPolicy, catalog *stations.Catalog) *Resolver {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.ProxyPath == "" {
		cfg.ProxyPath = hls.DefaultProxyPath
	}
	r := &Resolver{cfg: cfg, client: client, policy: policy}
	r.catalog.Store(catalog)
	return r
}

// SetCatalog replaces the curated catalog.
func (r *Resolver) SetCatalog(c *stations.Catalog) {
	r.catalog.Store(c)
}

type lookupPayload struct {
	Result any `json:"result"`
}

// Resolve returns the stream URL for id. Curated ids never touch the network.
// Upstream status failures are returned as *upstream.StatusError and
// transport failures as *upstream.Error.
func (r *Resolver) Resolve(ctx context.Context, id string) (Resolution, error) {
	logger := log.WithComponentFromContext(ctx, "resolver").With().Str(log.FieldStationID, id).Logger()

	if id == "" {
		return Resolution{}, ErrInvalidID
	}
	if stream, ok := r.catalog.Load().StreamURL(id); ok {
		metrics.IncStreamResolution("curated", "ok")
		res := r.finish(stream)
		res.Curated = true
		return res, nil
	}
	if !stations.ValidID(id) {
		metrics.IncStreamResolution("upstream", "invalid_id")
		return Resolution{}, ErrInvalidID
	}

	lookup := r.cfg.Endpoint + "?radio=" + url.QueryEscape(id)
	var payload lookupPayload
	if err := r.client.GetJSON(ctx, upstream.OpStream, lookup, &payload); err != nil {
		if errors.Is(err, upstream.ErrBadResponse) {
			metrics.IncStreamResolution("upstream", "not_found")
			logger.Info().Err(err).Str(log.FieldEvent, "resolver.not_found").Msg("malformed lookup payload")
			return Resolution{}, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		metrics.IncStreamResolution("upstream", "error")
		return Resolution{}, err
	}

	stream, ok := payload.Result.(string)
	if !ok || strings.TrimSpace(stream) == "" {
		metrics.IncStreamResolution("upstream", "not_found")
		logger.Info().Str(log.FieldEvent, "resolver.not_found").Msg("lookup payload has no stream url")
		return Resolution{}, ErrNotFound
	}

	metrics.IncStreamResolution("upstream", "ok")
	return r.finish(stream), nil
}

// finish wraps allow-listed stream URLs into proxy URLs.
func (r *Resolver) finish(stream string) Resolution {
	res := Resolution{StreamURL: stream, Upstream: stream}
	if r.policy.Allows(stream) {
		res.StreamURL = hls.ProxyURL(r.cfg.ProxyPath, stream)
		res.Proxied = true
	}
	return res
}
