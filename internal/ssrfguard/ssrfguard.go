// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

// Package ssrfguard validates outbound request targets before they are
// dialed, closing the window an attacker-controlled hostname or redirect
// could otherwise use to reach loopback, link-local, or other internal
// address space (DNS rebinding included: every resolved address is
// classified, not just the one net/http happens to dial first).
package ssrfguard

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/rdapify/rdap/internal/netclass"
)

// Resolver is the subset of *net.Resolver the guard needs. Tests inject a
// fake to simulate rebinding and NXDOMAIN without touching the network.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Config controls what CheckURL accepts.
type Config struct {
	// AllowedSchemes lists acceptable URL schemes, lowercase. A nil slice
	// defaults to {"https"}.
	AllowedSchemes []string

	// DeniedHosts is a set of lowercase hostnames (not IPs) that are always
	// rejected regardless of what they resolve to, e.g. cloud metadata
	// aliases that some resolvers special-case.
	DeniedHosts map[string]bool

	// AllowedHosts, if non-empty, is the only set of hostnames CheckURL will
	// accept; everything else is rejected before resolution even runs.
	AllowedHosts map[string]bool

	// AddrPolicy decides which resolved address classes are acceptable.
	// The zero value rejects every non-global class.
	AddrPolicy netclass.Policy

	Resolver Resolver
}

// DefaultDeniedHosts blocks well-known cloud metadata endpoints and local
// aliases that a classifier over the resolved IP wouldn't catch on its own
// (metadata.google.internal resolves to a documented link-local address,
// but third-party DNS views sometimes rewrite it).
func DefaultDeniedHosts() map[string]bool {
	return map[string]bool{
		"localhost":                 true,
		"metadata":                  true,
		"metadata.google.internal":  true,
		"metadata.goog":             true,
		"169.254.169.254.nip.io":    true,
		"instance-data":             true,
	}
}

// Guard validates request targets against Config before they are dialed.
type Guard struct {
	cfg Config
}

// New builds a Guard. A nil Resolver defaults to net.DefaultResolver.
func New(cfg Config) *Guard {
	if cfg.Resolver == nil {
		cfg.Resolver = net.DefaultResolver
	}
	if len(cfg.AllowedSchemes) == 0 {
		cfg.AllowedSchemes = []string{"https"}
	}
	if cfg.DeniedHosts == nil {
		cfg.DeniedHosts = DefaultDeniedHosts()
	}
	return &Guard{cfg: cfg}
}

// Decision is the outcome of a successful CheckURL call: the full set of
// addresses the host resolved to, all confirmed safe under Config. Callers
// should dial one of these addresses directly rather than re-resolving the
// hostname, so a second DNS lookup between check and connect can't swap in
// an address that was never classified.
type Decision struct {
	Host  string
	Port  string
	Addrs []net.IP
}

// Error reports why a target was rejected.
type Error struct {
	URL    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("rdap: blocked request to %s: %s", e.URL, e.Reason)
}

// CheckURL validates u's scheme and host, resolving the host if it isn't
// already an IP literal, and classifying every resulting address. It
// returns a Decision naming every address that passed, or an *Error
// naming the first thing that failed.
func (g *Guard) CheckURL(ctx context.Context, u *url.URL) (*Decision, error) {
	scheme := strings.ToLower(u.Scheme)
	if !contains(g.cfg.AllowedSchemes, scheme) {
		return nil, &Error{URL: u.String(), Reason: fmt.Sprintf("scheme %q not allowed", scheme)}
	}

	host := u.Hostname()
	if host == "" {
		return nil, &Error{URL: u.String(), Reason: "missing host"}
	}
	lowerHost := strings.ToLower(host)

	if len(g.cfg.AllowedHosts) > 0 && !g.cfg.AllowedHosts[lowerHost] {
		return nil, &Error{URL: u.String(), Reason: fmt.Sprintf("host %q is not in the allowlist", host)}
	}
	if g.cfg.DeniedHosts[lowerHost] {
		return nil, &Error{URL: u.String(), Reason: fmt.Sprintf("host %q is blocked", host)}
	}

	port := u.Port()
	if port == "" {
		if scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}

	var addrs []net.IP
	if literal := net.ParseIP(host); literal != nil {
		addrs = []net.IP{literal}
	} else {
		resolved, err := g.cfg.Resolver.LookupIPAddr(ctx, host)
		if err != nil {
			return nil, &Error{URL: u.String(), Reason: fmt.Sprintf("resolving %q: %v", host, err)}
		}
		if len(resolved) == 0 {
			return nil, &Error{URL: u.String(), Reason: fmt.Sprintf("%q did not resolve to any address", host)}
		}
		for _, a := range resolved {
			addrs = append(addrs, a.IP)
		}
	}

	for _, addr := range addrs {
		if netclass.IsForbidden(addr, g.cfg.AddrPolicy) {
			return nil, &Error{
				URL:    u.String(),
				Reason: fmt.Sprintf("address %s for host %q is %s", addr, host, netclass.Classify(addr)),
			}
		}
	}

	return &Decision{Host: host, Port: port, Addrs: addrs}, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
