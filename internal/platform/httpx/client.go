// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package httpx

import (
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultMaxIdleConns        = 32
	defaultMaxIdleConnsPerHost = 8
	defaultMaxRedirects        = 10
)

// ErrTooManyRedirects is returned when an upstream redirect chain exceeds the limit.
var ErrTooManyRedirects = errors.New("stopped after too many redirects")

// Options configures NewClient.
type Options struct {
	// Timeout bounds the whole exchange including the body. Zero leaves the
	// client without an overall deadline and relies on the transport defaults.
	Timeout time.Duration
	// MaxRedirects caps followed redirects (default 10).
	MaxRedirects int
	// Traced wraps the transport with OpenTelemetry client instrumentation.
	Traced bool
}

// NewClient returns the HTTP client used for all outbound upstream traffic.
func NewClient(opts Options) *http.Client {
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.MaxIdleConns = defaultMaxIdleConns
	base.MaxIdleConnsPerHost = defaultMaxIdleConnsPerHost

	var transport http.RoundTripper = base
	if opts.Traced {
		transport = otelhttp.NewTransport(base)
	}

	maxRedirects := opts.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = defaultMaxRedirects
	}

	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}
}
