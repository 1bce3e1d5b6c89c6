// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable means no candidate produced any HTTP response.
	ErrUnavailable = errors.New("upstream: host unreachable or transport failure")
	// ErrBadResponse means a 2xx response carried a body that could not be decoded.
	ErrBadResponse = errors.New("upstream: invalid response format or malformed data")
)

// Error is a transport-level failure of a whole fetch (every candidate errored).
type Error struct {
	Op  string
	URL string
	Err error // last candidate's transport error
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream: %s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap exposes both ErrUnavailable and the underlying transport error.
func (e *Error) Unwrap() []error {
	return []error{ErrUnavailable, e.Err}
}

// StatusError reports a non-success status returned by the upstream. Handlers
// relay Status to their own clients.
type StatusError struct {
	Op     string
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream: %s %s: HTTP %d %s", e.Op, e.URL, e.Status, http.StatusText(e.Status))
}

// StatusOf returns the relayable upstream status carried by err, if any.
func StatusOf(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status, true
	}
	return 0, false
}
