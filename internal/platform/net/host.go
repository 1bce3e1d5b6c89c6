// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package net

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

var (
	// ErrTargetInvalid indicates the input is not an absolute http(s) URL.
	ErrTargetInvalid = errors.New("target is not an absolute http(s) url")
	// ErrTargetNotAllowed indicates the URL host is outside the allow-listed domain.
	ErrTargetNotAllowed = errors.New("target host not allowed")
)

// hostProfile maps hosts like idna.Lookup but accepts labels outside the
// LDH rule, such as "m_aac", which browsers resolve.
var hostProfile = idna.New(idna.MapForLookup(), idna.StrictDomainName(false))

// NormalizeHost validates and normalizes a host for comparison.
func NormalizeHost(raw string) (string, error) {
	host := strings.TrimSpace(raw)
	if host == "" {
		return "", fmt.Errorf("host is empty")
	}
	if strings.Contains(host, "://") {
		return "", fmt.Errorf("host must not include scheme: %s", raw)
	}
	if strings.Contains(host, "/") {
		return "", fmt.Errorf("host must not include path: %s", raw)
	}
	if strings.Contains(host, "@") {
		return "", fmt.Errorf("host must not include userinfo: %s", raw)
	}
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	}
	if strings.Contains(host, ":") && net.ParseIP(host) == nil {
		return "", fmt.Errorf("host must not include port: %s", raw)
	}
	if strings.Contains(host, "%") {
		return "", fmt.Errorf("host must not include zone: %s", raw)
	}
	host = strings.TrimSuffix(host, ".")
	if host == "" {
		return "", fmt.Errorf("host is empty")
	}
	if ip := net.ParseIP(host); ip != nil {
		return strings.ToLower(ip.String()), nil
	}
	ascii, err := hostProfile.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("invalid host %q: %w", raw, err)
	}
	return strings.ToLower(ascii), nil
}

// HostPolicy restricts upstream hosts to one domain and its subdomains.
// The zero value allows nothing.
type HostPolicy struct {
	domain string
}

// NewHostPolicy builds a policy for domain (e.g. "cbs.co.kr").
func NewHostPolicy(domain string) (HostPolicy, error) {
	d, err := NormalizeHost(strings.TrimPrefix(strings.TrimSpace(domain), "."))
	if err != nil {
		return HostPolicy{}, fmt.Errorf("allowed domain: %w", err)
	}
	return HostPolicy{domain: d}, nil
}

// MustHostPolicy is NewHostPolicy for static configuration; it panics on error.
func MustHostPolicy(domain string) HostPolicy {
	p, err := NewHostPolicy(domain)
	if err != nil {
		panic(err)
	}
	return p
}

// Domain returns the normalized allow-listed domain.
func (p HostPolicy) Domain() string {
	return p.domain
}

// MatchHost reports whether host equals the domain or is a subdomain of it.
func (p HostPolicy) MatchHost(host string) bool {
	if p.domain == "" {
		return false
	}
	h, err := NormalizeHost(host)
	if err != nil {
		return false
	}
	return h == p.domain || strings.HasSuffix(h, "."+p.domain)
}

// Validate parses raw as an absolute http(s) URL and checks its host.
func (p HostPolicy) Validate(raw string) (*url.URL, error) {
	u, ok := ParseHTTPURL(raw)
	if !ok {
		return nil, ErrTargetInvalid
	}
	if !p.MatchHost(u.Hostname()) {
		return nil, ErrTargetNotAllowed
	}
	return u, nil
}

// Allows reports whether raw passes Validate.
func (p HostPolicy) Allows(raw string) bool {
	_, err := p.Validate(raw)
	return err == nil
}
