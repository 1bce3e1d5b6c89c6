// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package net

import (
	"net/url"
	"strings"
)

// SanitizeURL removes user info and query parameters for safe logging.
func SanitizeURL(rawURL string) string {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url-redacted"
	}
	parsedURL.User = nil
	parsedURL.RawQuery = ""
	return parsedURL.String()
}

// ParseHTTPURL parses s as an absolute HTTP/HTTPS URL.
// It enforces:
//   - Scheme must be "http" or "https" (case-insensitive)
//   - Host must be non-empty
func ParseHTTPURL(s string) (*url.URL, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, false
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, false
	}
	if u.Hostname() == "" {
		return nil, false
	}
	u.Scheme = scheme
	return u, true
}

// UpgradeScheme returns a copy of u with the http scheme replaced by https.
// Host, path, query and fragment are preserved. Non-http URLs are returned as copies unchanged.
func UpgradeScheme(u *url.URL) *url.URL {
	out := *u
	if u.User != nil {
		user := *u.User
		out.User = &user
	}
	if strings.EqualFold(out.Scheme, "http") {
		out.Scheme = "https"
	}
	return &out
}
