// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package upstream fetches resources from the listing site and stream hosts.
// Plain-http targets are tried over https first and fall back to http only
// when the secure attempt does not succeed.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	xglog "github.com/ManuGH/radionara/internal/log"
	"github.com/ManuGH/radionara/internal/metrics"
	platformnet "github.com/ManuGH/radionara/internal/platform/net"
	"github.com/ManuGH/radionara/internal/telemetry"
)

// Operation names used for logging and the fetch duration histogram.
const (
	OpManifest  = "hls"
	OpStream    = "stream"
	OpDirectory = "directory"
)

// drainLimit caps how much of a discarded body is read so the connection can be reused.
const drainLimit = 64 << 10

// Client performs upstream fetches with a fixed header set.
type Client struct {
	http    *http.Client
	headers http.Header
	paced   map[string]*rate.Limiter
}

// NewClient wraps httpClient. headers are sent with every request.
func NewClient(httpClient *http.Client, headers http.Header) *Client {
	if httpClient == nil {
		panic("upstream: nil http client")
	}
	return &Client{http: httpClient, headers: headers.Clone()}
}

// WithPacing makes every attempt of the given ops wait on limiter first. It
// must be called before the client is shared. Ops without pacing are unaffected.
func (c *Client) WithPacing(limiter *rate.Limiter, ops ...string) *Client {
	if limiter == nil {
		return c
	}
	if c.paced == nil {
		c.paced = make(map[string]*rate.Limiter, len(ops))
	}
	for _, op := range ops {
		c.paced[op] = limiter
	}
	return c
}

// Candidates lists the URLs to try for u, in order. An http URL yields its
// https equivalent followed by the original; anything else yields itself.
func Candidates(u *url.URL) []*url.URL {
	if u.Scheme == "http" {
		return []*url.URL{platformnet.UpgradeScheme(u), u}
	}
	return []*url.URL{u}
}

type attemptKind int

const (
	attemptOK attemptKind = iota
	attemptFailed
	attemptErrored
)

func (k attemptKind) String() string {
	switch k {
	case attemptOK:
		return metrics.AttemptOK
	case attemptFailed:
		return metrics.AttemptFailed
	default:
		return metrics.AttemptErrored
	}
}

// attempt is the outcome of one candidate: a 2xx response, a non-2xx
// response, or a transport error.
type attempt struct {
	kind attemptKind
	resp *http.Response
	err  error
}

// Fetch GETs u, walking Candidates strictly in order. The first 2xx response
// is returned immediately. If no candidate succeeds, the most recent non-2xx
// response is returned with a nil error; if there was none, the most recent
// transport error is returned as *Error. The caller owns the returned body.
func (c *Client) Fetch(ctx context.Context, op string, u *url.URL, extra http.Header) (resp *http.Response, err error) {
	ctx, span := telemetry.Tracer("radionara/upstream").Start(ctx, "upstream."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(telemetry.UpstreamAttributes(op, u.Hostname())...))
	logger := xglog.WithComponentFromContext(ctx, "upstream")
	start := time.Now()
	attempts := 0
	defer func() {
		metrics.ObserveUpstreamFetch(op, time.Since(start))
		span.SetAttributes(attribute.Int(telemetry.UpstreamAttemptKey, attempts))
		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, "upstream unavailable")
		case resp.StatusCode > 299:
			span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		}
		span.End()
	}()

	var lastFailed *http.Response
	var lastErr error

	for i, candidate := range Candidates(u) {
		if cerr := ctx.Err(); cerr != nil {
			lastErr = cerr
			break
		}
		if l := c.paced[op]; l != nil {
			if werr := l.Wait(ctx); werr != nil {
				lastErr = werr
				break
			}
		}
		attempts++
		a := c.try(ctx, candidate, extra)
		metrics.RecordUpstreamAttempt(candidate.Scheme, a.kind.String())

		ev := logger.Debug().
			Str(xglog.FieldEvent, "upstream.attempt").
			Str("op", op).
			Int(xglog.FieldAttempt, i+1).
			Str(xglog.FieldCandidate, platformnet.SanitizeURL(candidate.String())).
			Str("result", a.kind.String())

		switch a.kind {
		case attemptOK:
			ev.Int(xglog.FieldStatus, a.resp.StatusCode).Msg("upstream candidate succeeded")
			discard(lastFailed)
			return a.resp, nil
		case attemptFailed:
			ev.Int(xglog.FieldStatus, a.resp.StatusCode).Msg("upstream candidate returned non-success status")
			discard(lastFailed)
			lastFailed = a.resp
		case attemptErrored:
			ev.Err(a.err).Msg("upstream candidate failed")
			lastErr = a.err
		}
	}

	if lastFailed != nil {
		return lastFailed, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no candidates")
	}
	return nil, &Error{Op: op, URL: platformnet.SanitizeURL(u.String()), Err: lastErr}
}

func (c *Client) try(ctx context.Context, u *url.URL, extra http.Header) attempt {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return attempt{kind: attemptErrored, err: err}
	}
	for k, vs := range c.headers {
		req.Header[k] = append([]string(nil), vs...)
	}
	for k, vs := range extra {
		req.Header[k] = append([]string(nil), vs...)
	}

	resp, err := c.http.Do(req) //nolint:bodyclose // returned to caller or discarded
	if err != nil {
		return attempt{kind: attemptErrored, err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return attempt{kind: attemptFailed, resp: resp}
	}
	return attempt{kind: attemptOK, resp: resp}
}

// FinalURL is the URL the response was actually served from, after redirects.
func FinalURL(resp *http.Response) *url.URL {
	if resp == nil || resp.Request == nil {
		return nil
	}
	return resp.Request.URL
}

// Discard drains a bounded amount of the body and closes it.
func Discard(resp *http.Response) { discard(resp) }

func discard(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))
	_ = resp.Body.Close()
}

// fetchOK is Fetch for helpers that need a 2xx response; a non-2xx outcome
// becomes *StatusError.
func (c *Client) fetchOK(ctx context.Context, op, rawURL string, extra http.Header) (*http.Response, error) {
	u, ok := platformnet.ParseHTTPURL(rawURL)
	if !ok {
		return nil, fmt.Errorf("upstream: %s: invalid url %q", op, rawURL)
	}
	resp, err := c.Fetch(ctx, op, u, extra)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		discard(resp)
		return nil, &StatusError{Op: op, URL: platformnet.SanitizeURL(rawURL), Status: resp.StatusCode}
	}
	return resp, nil
}
