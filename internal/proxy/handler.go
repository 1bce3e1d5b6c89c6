// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package proxy serves /api/hls: it fetches an allow-listed upstream resource,
// rewrites playlists so every reference loops back through this endpoint, and
// streams everything else through unchanged.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/radionara/internal/hls"
	"github.com/ManuGH/radionara/internal/log"
	"github.com/ManuGH/radionara/internal/metrics"
	"github.com/ManuGH/radionara/internal/platform/httpx"
	platformnet "github.com/ManuGH/radionara/internal/platform/net"
	"github.com/ManuGH/radionara/internal/telemetry"
	"github.com/ManuGH/radionara/internal/upstream"
)

// Response cache policies.
const (
	ManifestCacheControl    = "s-maxage=5, stale-while-revalidate=20"
	PassthroughCacheControl = "s-maxage=30, stale-while-revalidate=60"
	defaultContentType      = "application/octet-stream"
)

// Client-facing error messages.
const (
	msgInvalidTarget   = "Invalid target URL"
	msgUpstreamFailed  = "Failed to fetch upstream stream"
	msgRedirectBlocked = "Upstream redirect is not allowed"
	msgProxyFailed     = "Failed to proxy stream"
)

// DefaultMaxManifestBytes bounds playlists read into memory for rewriting.
const DefaultMaxManifestBytes = 4 << 20

// ErrRedirectNotAllowed is reported when redirects end on a host outside the allow-list.
var ErrRedirectNotAllowed = errors.New("upstream redirect left the allowed domain")

var errManifestTooLarge = errors.New("manifest exceeds size limit")

// Fetcher fetches upstream resources with protocol fallback. *upstream.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, op string, u *url.URL, extra http.Header) (*http.Response, error)
}

// Config configures a Handler.
type Config struct {
	// ProxyPath is the path this handler is mounted on; rewritten references point to it.
	ProxyPath string
	// SiteOrigin is sent as Referer/Origin to stream hosts.
	SiteOrigin string
	// MaxManifestBytes caps playlist size (DefaultMaxManifestBytes when zero).
	MaxManifestBytes int64
}

// Handler is the manifest proxy endpoint.
type Handler struct {
	policy   platformnet.HostPolicy
	fetch    Fetcher
	rewriter hls.Rewriter
	headers  http.Header
	maxBytes int64
}

// NewHandler returns the /api/hls handler.
func NewHandler(cfg Config, policy platformnet.HostPolicy, fetch Fetcher) *Handler {
	if cfg.ProxyPath == "" {
		cfg.ProxyPath = hls.DefaultProxyPath
	}
	if cfg.MaxManifestBytes <= 0 {
		cfg.MaxManifestBytes = DefaultMaxManifestBytes
	}
	return &Handler{
		policy:   policy,
		fetch:    fetch,
		rewriter: hls.Rewriter{ProxyPath: cfg.ProxyPath},
		headers:  upstream.ManifestHeaders(cfg.SiteOrigin),
		maxBytes: cfg.MaxManifestBytes,
	}
}

// targetParam returns the first url query value, or "".
func targetParam(r *http.Request) string {
	if vs := r.URL.Query()[hls.ProxyQueryParam]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	// Upstream fetches run to completion even if the client goes away.
	ctx := context.WithoutCancel(r.Context())
	logger := log.WithComponentFromContext(ctx, "hls")

	target, err := h.policy.Validate(targetParam(r))
	if err != nil {
		metrics.IncHLSRequest(metrics.KindUnknown, metrics.OutcomeInvalidTarget)
		logger.Debug().Err(err).Str(log.FieldEvent, "hls.invalid_target").Msg("rejected proxy target")
		httpx.WriteError(w, http.StatusBadRequest, msgInvalidTarget)
		return
	}
	logger = logger.With().Str(log.FieldTargetURL, platformnet.SanitizeURL(target.String())).Logger()

	resp, err := h.fetch.Fetch(ctx, upstream.OpManifest, target, h.headers)
	if err != nil {
		h.fail(w, logger, metrics.KindUnknown, err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.IncHLSRequest(metrics.KindUnknown, metrics.OutcomeUpstreamStatus)
		logger.Warn().
			Str(log.FieldEvent, "hls.upstream_status").
			Int(log.FieldStatus, resp.StatusCode).
			Msg("upstream returned non-success status")
		httpx.WriteError(w, resp.StatusCode, msgUpstreamFailed)
		return
	}

	final := upstream.FinalURL(resp)
	if final == nil || !h.policy.Allows(final.String()) {
		metrics.IncHLSRequest(metrics.KindUnknown, metrics.OutcomeRedirectBlocked)
		ev := logger.Warn().Str(log.FieldEvent, "hls.redirect_blocked")
		if final != nil {
			ev = ev.Str(log.FieldFinalURL, platformnet.SanitizeURL(final.String()))
		}
		ev.Msg(ErrRedirectNotAllowed.Error())
		httpx.WriteError(w, http.StatusBadGateway, msgRedirectBlocked)
		return
	}

	span := trace.SpanFromContext(ctx)
	contentType := resp.Header.Get("Content-Type")
	if hls.IsManifest(contentType, final) {
		span.SetAttributes(attribute.String(telemetry.HLSKindKey, metrics.KindManifest))
		h.serveManifest(w, logger, span, resp, final)
		return
	}
	span.SetAttributes(attribute.String(telemetry.HLSKindKey, metrics.KindSegment))
	h.servePassthrough(w, logger, resp, contentType)
}

func (h *Handler) serveManifest(w http.ResponseWriter, logger zerolog.Logger, span trace.Span, resp *http.Response, final *url.URL) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes+1))
	if err == nil && int64(len(body)) > h.maxBytes {
		err = fmt.Errorf("%w (%d bytes)", errManifestTooLarge, h.maxBytes)
	}
	if err != nil {
		h.fail(w, logger, metrics.KindManifest, err)
		return
	}

	res := h.rewriter.Rewrite(string(body), final)
	metrics.RecordManifestRewrite(res.Rewritten, res.Skipped)
	span.SetAttributes(attribute.Int(telemetry.HLSRewrittenKey, res.Rewritten))
	metrics.IncHLSRequest(metrics.KindManifest, metrics.OutcomeServed)
	logger.Debug().
		Str(log.FieldEvent, "hls.manifest_rewritten").
		Int("rewritten", res.Rewritten).
		Int("kept", res.Skipped).
		Msg("manifest rewritten")

	w.Header().Set("Content-Type", hls.ContentType)
	w.Header().Set("Cache-Control", ManifestCacheControl)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, res.Text)
}

func (h *Handler) servePassthrough(w http.ResponseWriter, logger zerolog.Logger, resp *http.Response, contentType string) {
	if contentType == "" {
		contentType = defaultContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", PassthroughCacheControl)
	w.WriteHeader(http.StatusOK)
	metrics.IncHLSRequest(metrics.KindSegment, metrics.OutcomeServed)

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		// Headers are gone; the client sees a truncated body.
		logger.Debug().Err(err).
			Str(log.FieldEvent, "hls.passthrough_aborted").
			Int64(log.FieldBytes, n).
			Msg("passthrough copy ended early")
	}
}

func (h *Handler) fail(w http.ResponseWriter, logger zerolog.Logger, kind string, err error) {
	metrics.IncHLSRequest(kind, metrics.OutcomeError)
	logger.Error().Err(err).Str(log.FieldEvent, "hls.fetch_failed").Msg("proxy request failed")
	httpx.WriteJSON(w, http.StatusInternalServerError, httpx.ErrorBody{Error: msgProxyFailed, Detail: err.Error()})
}
