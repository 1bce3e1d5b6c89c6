// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	platformnet "github.com/ManuGH/radionara/internal/platform/net"
)

// maxDocumentBytes bounds HTML and JSON documents read into memory.
const maxDocumentBytes = 8 << 20

// GetJSON fetches rawURL and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, op, rawURL string, v any) error {
	resp, err := c.fetchOK(ctx, op, rawURL, http.Header{"Accept": {"application/json, text/javascript, */*"}})
	if err != nil {
		return err
	}
	defer discard(resp)

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentBytes)).Decode(v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadResponse, op, err)
	}
	return nil
}

// GetText fetches rawURL and returns the body as text.
func (c *Client) GetText(ctx context.Context, op, rawURL string) (string, error) {
	resp, err := c.fetchOK(ctx, op, rawURL, nil)
	if err != nil {
		return "", err
	}
	defer discard(resp)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return "", &Error{Op: op, URL: platformnet.SanitizeURL(rawURL), Err: err}
	}
	return string(body), nil
}
