// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"errors"
	"net/http"

	"github.com/ManuGH/radionara/internal/platform/httpx"
	"github.com/ManuGH/radionara/internal/resolver"
	"github.com/ManuGH/radionara/internal/upstream"
)

// Client-facing error messages.
const (
	msgSourceFetchFailed = "Failed to fetch source page"
	msgChannelsFailed    = "Failed to load channels"
	msgInvalidRadioID    = "Invalid radio id"
	msgStreamNotFound    = "Stream URL not found"
	msgStreamFetchFailed = "Failed to fetch stream"
	msgResolveFailed     = "Failed to resolve stream"
)

func writeError(w http.ResponseWriter, code int, msg string) {
	httpx.WriteError(w, code, msg)
}

// relayableStatus reports the upstream status to pass through, if any.
// Only error statuses are relayed; anything else collapses to 500.
func relayableStatus(err error) (int, bool) {
	status, ok := upstream.StatusOf(err)
	if !ok || status < http.StatusBadRequest || status > 599 {
		return 0, false
	}
	return status, true
}

// classifyChannelsError maps a directory failure to a status and message.
func classifyChannelsError(err error) (int, string) {
	if status, ok := relayableStatus(err); ok {
		return status, msgSourceFetchFailed
	}
	return http.StatusInternalServerError, msgChannelsFailed
}

// classifyStreamError maps a resolver failure to a status and message.
func classifyStreamError(err error) (int, string) {
	switch {
	case errors.Is(err, resolver.ErrInvalidID):
		return http.StatusBadRequest, msgInvalidRadioID
	case errors.Is(err, resolver.ErrNotFound):
		return http.StatusNotFound, msgStreamNotFound
	}
	if status, ok := relayableStatus(err); ok {
		return status, msgStreamFetchFailed
	}
	return http.StatusInternalServerError, msgResolveFailed
}
