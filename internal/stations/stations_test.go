// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package stations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidID(t *testing.T) {
	for id, want := range map[string]bool{
		"r1":              true,
		"r12345":          true,
		"r":               false,
		"R12":             false,
		"r12a":            false,
		" r12":            false,
		"rk-cbs-fm-music": false,
		"":                false,
		"r12\n":           false,
	} {
		assert.Equal(t, want, ValidID(id), "id %q", id)
	}
}

func TestAbsoluteImage(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"//cdn.sradio365.com/a.png", "https://cdn.sradio365.com/a.png"},
		{"http://img.example/a.png", "http://img.example/a.png"},
		{"https://img.example/a.png", "https://img.example/a.png"},
		{"/images/logo/kbs.png", "https://sradio365.com/images/logo/kbs.png"},
		{"images/logo/kbs.png", "https://sradio365.com/images/logo/kbs.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AbsoluteImage("https://sradio365.com/", tt.raw), "raw %q", tt.raw)
	}
	assert.Equal(t, "https://sradio365.com/x.png", AbsoluteImage("", "x.png"))
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.Equal(t, 4, c.Len())

	u, ok := c.StreamURL("rk-cbs-fm-music")
	require.True(t, ok)
	assert.Equal(t, "https://m-aac.cbs.co.kr/mweb_cbs939/_definst_/cbs939.stream/chunklist.m3u8", u)

	_, ok = c.StreamURL("r100")
	assert.False(t, ok)

	ids := make([]string, 0, c.Len())
	for _, s := range c.Stations() {
		ids = append(ids, s.ID)
		assert.Equal(t, "radio-korea", s.Source)
		assert.Equal(t, "CBS", s.Category)
	}
	assert.Equal(t, []string{"rk-cbs-fm-music", "rk-cbs-fm-standard", "rk-cbs-fm-joy4u", "rk-cbs-gwangju"}, ids)
}

func TestNewCatalog_Rejects(t *testing.T) {
	entry := func(id, stream string) Curated {
		return Curated{Station: Station{ID: id}, StreamURL: stream}
	}
	tests := []struct {
		name    string
		entries []Curated
		wantErr error
	}{
		{"empty id", []Curated{entry(" ", "https://x.cbs.co.kr/a.m3u8")}, errEmptyCatalogID},
		{"missing stream", []Curated{entry("rk-a", "")}, errEmptyStreamURL},
		{"duplicate", []Curated{entry("rk-a", "https://a"), entry("rk-a", "https://b")}, errDuplicateEntry},
		{"directory id", []Curated{entry("r42", "https://a")}, errDirectoryIDUsed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.entries)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	_, ok := c.StreamURL("rk-cbs-fm-music")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
	assert.Nil(t, c.Stations())
}
