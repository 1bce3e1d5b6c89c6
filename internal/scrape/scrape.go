// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package scrape extracts station entries from listing-site HTML.
package scrape

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ManuGH/radionara/internal/stations"
)

// PlayIconClass marks the anchors that carry station metadata.
const PlayIconClass = "play-icon"

// Attributes returns the attributes of the first start tag in tag. Keys are
// lower-cased and values entity-decoded; the last duplicate wins.
func Attributes(tag string) map[string]string {
	z := html.NewTokenizer(strings.NewReader(tag))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return map[string]string{}
		case html.StartTagToken, html.SelfClosingTagToken:
			return attrMap(z.Token().Attr)
		}
	}
}

func attrMap(attrs []html.Attribute) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if a.Namespace != "" {
			continue
		}
		m[a.Key] = a.Val
	}
	return m
}

// Anchors returns the attribute maps of every <a> whose class attribute is
// exactly class, in document order.
func Anchors(r io.Reader, class string) ([]map[string]string, error) {
	if class == "" {
		class = PlayIconClass
	}
	var out []map[string]string
	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return out, err
			}
			return out, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom != atom.A {
				continue
			}
			attrs := attrMap(tok.Attr)
			if attrs["class"] == class {
				out = append(out, attrs)
			}
		}
	}
}

// ParseStations extracts directory stations from a listing page. Anchors
// without a valid station id are skipped; image paths are made absolute
// against site.
func ParseStations(r io.Reader, site string) ([]stations.Station, error) {
	anchors, err := Anchors(r, PlayIconClass)
	if err != nil {
		return nil, err
	}
	out := make([]stations.Station, 0, len(anchors))
	for _, a := range anchors {
		id := a["id"]
		if !stations.ValidID(id) {
			continue
		}
		out = append(out, stations.Station{
			ID:       id,
			Station:  a["data-station"],
			Title:    a["data-title"],
			Image:    stations.AbsoluteImage(site, a["data-image"]),
			Source:   a["data-source"],
			Category: a["data-category"],
		})
	}
	return out, nil
}
