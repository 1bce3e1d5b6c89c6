// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusBadRequest, "Invalid target URL")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Invalid target URL"}`, rec.Body.String())
}

func TestWriteJSON_Detail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusInternalServerError, ErrorBody{Error: "Failed to proxy stream", Detail: "dial tcp: refused"})
	assert.JSONEq(t, `{"error":"Failed to proxy stream","detail":"dial tcp: refused"}`, rec.Body.String())
}
