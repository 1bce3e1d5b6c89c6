// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package scrape

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/radionara/internal/stations"
)

func TestAttributes(t *testing.T) {
	got := Attributes(`<a class="play-icon" id="r7" data-title="A &amp; B" DATA-Station="X">`)
	want := map[string]string{
		"class":        "play-icon",
		"id":           "r7",
		"data-title":   "A & B",
		"data-station": "X",
	}
	assert.Equal(t, want, got)
	assert.Empty(t, Attributes("no tag here"))
}

func TestParseStations_Fixture(t *testing.T) {
	f, err := os.Open("testdata/province.html")
	require.NoError(t, err)
	defer f.Close()

	got, err := ParseStations(f, "https://sradio365.com")
	require.NoError(t, err)

	want := []stations.Station{
		{ID: "r101", Station: "KBS 1라디오", Title: "KBS 1Radio", Image: "https://sradio365.com/images/logo/kbs1.png", Source: "kbs", Category: "KBS"},
		{ID: "r102", Station: "MBC FM4U", Title: "MBC FM4U & Friends", Image: "https://cdn.sradio365.com/logo/mbcfm4u.png", Source: "mbc", Category: "MBC"},
		{ID: "r104", Station: "TBS", Image: "https://img.example/tbs.png"},
		{ID: "r101", Station: "KBS 1라디오 (dup)", Image: "https://sradio365.com/images/logo/kbs1-b.png"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseStations mismatch (-want +got):\n%s", diff)
	}
}

func TestAnchors_CustomClassAndEmptyDocument(t *testing.T) {
	anchors, err := Anchors(strings.NewReader(`<div><a class="x" id="1"></a><a class="y"></a></div>`), "x")
	require.NoError(t, err)
	require.Len(t, anchors, 1)
	assert.Equal(t, "1", anchors[0]["id"])

	anchors, err = Anchors(strings.NewReader(""), "")
	require.NoError(t, err)
	assert.Empty(t, anchors)
}
