// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package hls rewrites HLS playlists so that every referenced sub-playlist,
// key and segment is fetched back through the same-origin proxy.
package hls

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	directiveMarker = "#"
	lineSeparator   = "\n"
)

// uriAttr matches quoted URI attributes in directive lines, e.g.
// #EXT-X-KEY:METHOD=AES-128,URI="key.bin" or #EXT-X-MEDIA:...,URI="audio/index.m3u8".
var uriAttr = regexp.MustCompile(`URI="([^"]+)"`)

// Rewriter turns upstream references into proxy references.
type Rewriter struct {
	// ProxyPath is the prefix of generated proxy URLs (DefaultProxyPath when empty).
	ProxyPath string
}

// Result is the rewritten manifest plus counters for observability.
type Result struct {
	Text      string
	Rewritten int // URIs replaced by proxy URLs
	Skipped   int // URIs left untouched because they did not resolve
}

// Resolve resolves ref against base following RFC 3986 reference resolution.
// A '%' that does not start a valid escape is treated as a literal percent
// sign, as browsers do. It fails for unparseable references and for results
// that are not absolute http(s) URLs; callers leave such references untouched.
func Resolve(ref string, base *url.URL) (string, bool) {
	if base == nil {
		return "", false
	}
	ref = strings.TrimSpace(ref)
	parsed, err := url.Parse(ref)
	if err != nil {
		parsed, err = url.Parse(escapeStrayPercent(ref))
	}
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(parsed)
	if (abs.Scheme != "http" && abs.Scheme != "https") || abs.Host == "" {
		return "", false
	}
	return abs.String(), true
}

// Rewrite rewrites manifest line by line. base is the URL the manifest was
// actually served from (after redirects). Line order, blank lines and
// directive bytes outside URI attributes are preserved. A reference line is
// replaced whole; one that fails to resolve is kept verbatim.
func (rw Rewriter) Rewrite(manifest string, base *url.URL) Result {
	var res Result
	lines := strings.Split(manifest, lineSeparator)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			// pass through
		case strings.HasPrefix(trimmed, directiveMarker):
			lines[i] = rw.rewriteDirective(line, base, &res)
		default:
			lines[i] = rw.rewriteReference(line, trimmed, base, &res)
		}
	}
	res.Text = strings.Join(lines, lineSeparator)
	return res
}

func (rw Rewriter) rewriteDirective(line string, base *url.URL, res *Result) string {
	return uriAttr.ReplaceAllStringFunc(line, func(attr string) string {
		value := uriAttr.FindStringSubmatch(attr)[1]
		resolved, ok := Resolve(value, base)
		if !ok {
			res.Skipped++
			return attr
		}
		res.Rewritten++
		return `URI="` + ProxyURL(rw.ProxyPath, resolved) + `"`
	})
}

// rewriteReference replaces the whole line, surrounding whitespace included.
func (rw Rewriter) rewriteReference(line, trimmed string, base *url.URL, res *Result) string {
	resolved, ok := Resolve(trimmed, base)
	if !ok {
		res.Skipped++
		return line
	}
	res.Rewritten++
	return ProxyURL(rw.ProxyPath, resolved)
}

// escapeStrayPercent encodes every '%' not followed by two hex digits as "%25".
func escapeStrayPercent(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && (i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2])) {
			b.WriteString("%25")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
