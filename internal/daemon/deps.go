// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Deps contains dependencies required by the daemon Manager.
type Deps struct {
	Logger zerolog.Logger

	// APIHandler serves the public API.
	APIHandler http.Handler

	// MetricsHandler serves Prometheus metrics on MetricsAddr. Nil disables the listener.
	MetricsHandler http.Handler
	MetricsAddr    string
}

// Validate checks required dependencies.
func (d *Deps) Validate() error {
	if d.APIHandler == nil {
		return ErrMissingAPIHandler
	}
	return nil
}
