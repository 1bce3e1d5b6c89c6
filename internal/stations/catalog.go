// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package stations

import (
	"errors"
	"fmt"
	"strings"
)

// Curated is a station whose stream URL is known up front and never resolved upstream.
type Curated struct {
	Station   `yaml:",inline"`
	StreamURL string `json:"streamUrl" yaml:"stream_url"`
}

// Catalog is an immutable, ordered set of curated stations.
type Catalog struct {
	entries []Curated
	byID    map[string]int
}

var (
	errEmptyCatalogID  = errors.New("curated station has an empty id")
	errEmptyStreamURL  = errors.New("curated station has an empty stream url")
	errDuplicateEntry  = errors.New("duplicate curated station id")
	errDirectoryIDUsed = errors.New("curated station id collides with directory id format")
)

// NewCatalog validates entries and builds a catalog. Ids must be unique and
// must not look like directory ids so lookups never shadow upstream stations.
func NewCatalog(entries []Curated) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Curated, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		e.ID = strings.TrimSpace(e.ID)
		switch {
		case e.ID == "":
			return nil, errEmptyCatalogID
		case ValidID(e.ID):
			return nil, fmt.Errorf("%w: %s", errDirectoryIDUsed, e.ID)
		case strings.TrimSpace(e.StreamURL) == "":
			return nil, fmt.Errorf("%w: %s", errEmptyStreamURL, e.ID)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("%w: %s", errDuplicateEntry, e.ID)
		}
		c.byID[e.ID] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// StreamURL returns the configured stream URL for id.
func (c *Catalog) StreamURL(id string) (string, bool) {
	if c == nil {
		return "", false
	}
	i, ok := c.byID[id]
	if !ok {
		return "", false
	}
	return c.entries[i].StreamURL, true
}

// Stations returns the catalog entries as plain stations, in catalog order.
func (c *Catalog) Stations() []Station {
	if c == nil {
		return nil
	}
	out := make([]Station, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Station
	}
	return out
}

// Entries returns a copy of the curated entries.
func (c *Catalog) Entries() []Curated {
	if c == nil {
		return nil
	}
	return append([]Curated(nil), c.entries...)
}

// Len returns the number of curated stations.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

const (
	radioKoreaSource = "radio-korea"
	cbsCategory      = "CBS"
)

// DefaultEntries are the CBS stations streamed directly from m-aac.cbs.co.kr.
func DefaultEntries() []Curated {
	return []Curated{
		{
			Station: Station{
				ID:       "rk-cbs-fm-music",
				Station:  "CBS 음악FM",
				Title:    "음악FM CBS 라디오 (Music FM)",
				Image:    "https://static.mytuner.mobi/media/tvos_radios/593/eumagfm-cbs-radio-music-fm.0f29a25a.png",
				Source:   radioKoreaSource,
				Category: cbsCategory,
			},
			StreamURL: "https://m-aac.cbs.co.kr/mweb_cbs939/_definst_/cbs939.stream/chunklist.m3u8",
		},
		{
			Station: Station{
				ID:       "rk-cbs-fm-standard",
				Station:  "CBS 표준FM",
				Title:    "표준FM CBS 라디오 (Standard FM)",
				Image:    "https://static.mytuner.mobi/media/tvos_radios/017/pyojunfm-cbs-radio-standard-fm.982d4655.png",
				Source:   radioKoreaSource,
				Category: cbsCategory,
			},
			StreamURL: "https://m-aac.cbs.co.kr/mweb_cbs981/_definst_/cbs981.stream/chunklist.m3u8",
		},
		{
			Station: Station{
				ID:       "rk-cbs-fm-joy4u",
				Station:  "CBS Joy4U",
				Title:    "CBS Joy4U-CBS 라디오",
				Image:    "https://static.mytuner.mobi/media/tvos_radios/888/cbs-joy4u-cbs-radio.851e9d2a.png",
				Source:   radioKoreaSource,
				Category: cbsCategory,
			},
			StreamURL: "https://m-aac.cbs.co.kr/mweb_cbscmc/_definst_/cbscmc.stream/playlist.m3u8",
		},
		{
			Station: Station{
				ID:       "rk-cbs-gwangju",
				Station:  "CBS 광주",
				Title:    "광주CBS (CBS Gwangju)",
				Image:    "https://static.mytuner.mobi/media/tvos_radios/935/gwangjucbs-cbs-gwangju.b3e2a776.png",
				Source:   radioKoreaSource,
				Category: cbsCategory,
			},
			StreamURL: "https://m-aac.cbs.co.kr/gwangju/_definst_/gwangju.stream/playlist.m3u8",
		},
	}
}

// DefaultCatalog returns the built-in curated catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultEntries())
	if err != nil {
		panic(err)
	}
	return c
}
