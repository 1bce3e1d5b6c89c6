// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package directory

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ManuGH/radionara/internal/stations"
)

// Exclusions lists stations that must never be served. It is plain data,
// loaded from configuration and swappable at runtime.
type Exclusions struct {
	IDs      []string
	Keywords []string
	Images   []string
}

// exclusionSet is the compiled, lookup-friendly form of Exclusions.
type exclusionSet struct {
	ids      map[string]struct{}
	images   map[string]struct{}
	keywords []string
}

func compileExclusions(e Exclusions) *exclusionSet {
	set := &exclusionSet{
		ids:    make(map[string]struct{}, len(e.IDs)),
		images: make(map[string]struct{}, len(e.Images)),
	}
	for _, id := range e.IDs {
		if id = strings.TrimSpace(id); id != "" {
			set.ids[id] = struct{}{}
		}
	}
	for _, img := range e.Images {
		if img = strings.TrimSpace(img); img != "" {
			set.images[img] = struct{}{}
		}
	}
	for _, kw := range e.Keywords {
		if kw = fold(kw); kw != "" {
			set.keywords = append(set.keywords, kw)
		}
	}
	return set
}

// fold normalizes text for keyword matching: NFC (Hangul may arrive
// decomposed), lower-case, trimmed.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// excludes reports whether st matches any rule, and which kind.
func (s *exclusionSet) excludes(st stations.Station) (string, bool) {
	if s == nil {
		return "", false
	}
	if _, ok := s.ids[st.ID]; ok {
		return "id", true
	}
	if st.Image != "" {
		if _, ok := s.images[st.Image]; ok {
			return "image", true
		}
	}
	if len(s.keywords) > 0 {
		name, title := fold(st.Station), fold(st.Title)
		for _, kw := range s.keywords {
			if strings.Contains(name, kw) || strings.Contains(title, kw) {
				return "keyword", true
			}
		}
	}
	return "", false
}
