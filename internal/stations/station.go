// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package stations defines the station model shared by the directory and the
// stream resolver, plus the curated catalog of directly streamed stations.
package stations

import (
	"regexp"
	"strings"
)

// IDPattern matches identifiers of stations listed on the directory site.
var IDPattern = regexp.MustCompile(`^r\d+$`)

// ValidID reports whether id is a directory station id.
func ValidID(id string) bool {
	return IDPattern.MatchString(id)
}

// Station is one playable entry of the directory.
type Station struct {
	ID       string `json:"id" yaml:"id"`
	Station  string `json:"station" yaml:"station"`
	Title    string `json:"title" yaml:"title"`
	Image    string `json:"image" yaml:"image"`
	Source   string `json:"source" yaml:"source"`
	Category string `json:"category" yaml:"category"`
}

// DefaultSiteURL is the listing site every relative image path is resolved against.
const DefaultSiteURL = "https://sradio365.com"

// AbsoluteImage turns a listing image reference into an absolute URL.
func AbsoluteImage(site, raw string) string {
	if raw == "" {
		return ""
	}
	if site == "" {
		site = DefaultSiteURL
	}
	site = strings.TrimSuffix(site, "/")
	switch {
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw
	case strings.HasPrefix(raw, "/"):
		return site + raw
	default:
		return site + "/" + raw
	}
}
