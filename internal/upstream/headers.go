// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package upstream

import "net/http"

// Browser-like identity presented to the listing site and the stream hosts.
const (
	DefaultUserAgent      = "Mozilla/5.0 (compatible; radionara-bot/1.0)"
	DefaultAcceptLanguage = "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7"
	PlaylistAccept        = "application/vnd.apple.mpegurl, application/x-mpegURL, */*"
	DefaultSiteOrigin     = "https://sradio365.com"
)

// BaseHeaders are sent on every upstream request.
func BaseHeaders(userAgent string) http.Header {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	h := make(http.Header, 2)
	h.Set("User-Agent", userAgent)
	h.Set("Accept-Language", DefaultAcceptLanguage)
	return h
}

// ManifestHeaders are added to stream fetches; some stream hosts reject
// requests without the listing site as referer.
func ManifestHeaders(siteOrigin string) http.Header {
	if siteOrigin == "" {
		siteOrigin = DefaultSiteOrigin
	}
	h := make(http.Header, 3)
	h.Set("Accept", PlaylistAccept)
	h.Set("Referer", siteOrigin+"/")
	h.Set("Origin", siteOrigin)
	return h
}
