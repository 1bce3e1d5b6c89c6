// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package hls

import (
	"errors"
	"net/url"
	"strings"
)

// DefaultProxyPath is the same-origin path that serves proxied manifests and segments.
const DefaultProxyPath = "/api/hls"

// ProxyQueryParam carries the absolute upstream URL inside a proxy URL.
const ProxyQueryParam = "url"

// ContentType is sent for every rewritten manifest regardless of the upstream label.
const ContentType = "application/vnd.apple.mpegurl; charset=utf-8"

// manifestMIMEMarkers are matched as case-insensitive substrings of Content-Type.
var manifestMIMEMarkers = []string{
	"mpegurl",
	"application/vnd.apple.mpegurl",
}

const manifestExt = ".m3u8"

// ErrNoProxyTarget is returned when a proxy URL carries no target parameter.
var ErrNoProxyTarget = errors.New("proxy url has no target")

// ProxyURL wraps an absolute upstream URL into a same-origin proxy URL.
// The target is query-escaped so that decoding yields it byte-for-byte.
func ProxyURL(prefix, target string) string {
	if prefix == "" {
		prefix = DefaultProxyPath
	}
	return prefix + "?" + ProxyQueryParam + "=" + url.QueryEscape(target)
}

// TargetFromProxyURL extracts the upstream URL embedded by ProxyURL.
func TargetFromProxyURL(proxyURL string) (string, error) {
	u, err := url.Parse(proxyURL)
	if err != nil {
		return "", err
	}
	target := u.Query().Get(ProxyQueryParam)
	if target == "" {
		return "", ErrNoProxyTarget
	}
	return target, nil
}

// IsManifest classifies a fetched resource as a playlist. Either the declared
// content type or a playlist extension anywhere in the final URL is sufficient,
// so upstreams that label playlists as octet-stream or text/plain still match.
func IsManifest(contentType string, finalURL *url.URL) bool {
	ct := strings.ToLower(contentType)
	for _, marker := range manifestMIMEMarkers {
		if strings.Contains(ct, marker) {
			return true
		}
	}
	if finalURL == nil {
		return false
	}
	return strings.Contains(strings.ToLower(finalURL.String()), manifestExt)
}
