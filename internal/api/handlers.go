// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ManuGH/radionara/internal/api/middleware"
	"github.com/ManuGH/radionara/internal/log"
	"github.com/ManuGH/radionara/internal/platform/httpx"
	"github.com/ManuGH/radionara/internal/telemetry"
)

// StreamResponse is the JSON payload of /api/stream.
type StreamResponse struct {
	StreamURL string `json:"streamUrl"`
}

// handleChannels serves GET /api/channels.
func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	logger := log.WithComponentFromContext(ctx, "api")

	listing, err := s.channels.List(ctx)
	if err != nil {
		code, msg := classifyChannelsError(err)
		logger.Error().Err(err).
			Str(log.FieldEvent, "channels.failed").
			Int(log.FieldStatus, code).
			Msg("failed to build channel listing")
		writeError(w, code, msg)
		return
	}

	w.Header().Set("Cache-Control", ChannelsCacheControl)
	httpx.WriteJSON(w, http.StatusOK, listing)
}

// handleStream serves GET /api/stream?radio=<id>.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("radio")
	ctx := log.ContextWithStationID(context.WithoutCancel(r.Context()), id)
	logger := log.WithComponentFromContext(ctx, "api")
	middleware.AddSpanAttributes(r, attribute.String(telemetry.StationIDKey, id))

	res, err := s.streams.Resolve(ctx, id)
	if err != nil {
		code, msg := classifyStreamError(err)
		evt := logger.Warn()
		if code >= http.StatusInternalServerError {
			evt = logger.Error()
		}
		evt.Err(err).
			Str(log.FieldEvent, "stream.failed").
			Int(log.FieldStatus, code).
			Msg("failed to resolve stream")
		writeError(w, code, msg)
		return
	}

	logger.Debug().
		Str(log.FieldEvent, "stream.resolved").
		Bool("curated", res.Curated).
		Bool("proxied", res.Proxied).
		Msg("stream resolved")
	w.Header().Set("Cache-Control", StreamCacheControl)
	httpx.WriteJSON(w, http.StatusOK, StreamResponse{StreamURL: res.StreamURL})
}
