// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package ssrfguard

import (
	"context"
	"errors"
	"net"
	"net/url"
	"testing"
)

type fakeResolver struct {
	addrs map[string][]net.IPAddr
	err   error
}

func (f *fakeResolver) LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error) {
	if f.err != nil {
		return nil, f.err
	}
	addrs, ok := f.addrs[host]
	if !ok {
		return nil, errors.New("no such host")
	}
	return addrs, nil
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q): %v", raw, err)
	}
	return u
}

func TestCheckURLRejectsBadScheme(t *testing.T) {
	g := New(Config{Resolver: &fakeResolver{}})

	_, err := g.CheckURL(context.Background(), mustParse(t, "http://rdap.example/"))
	if err == nil {
		t.Fatal("expected rejection of non-https scheme")
	}
}

func TestCheckURLRejectsDeniedHost(t *testing.T) {
	g := New(Config{Resolver: &fakeResolver{}})

	_, err := g.CheckURL(context.Background(), mustParse(t, "https://localhost/"))
	if err == nil {
		t.Fatal("expected rejection of denied host")
	}
}

func TestCheckURLAcceptsPublicIPLiteral(t *testing.T) {
	g := New(Config{Resolver: &fakeResolver{}})

	decision, err := g.CheckURL(context.Background(), mustParse(t, "https://93.184.216.34/rdap"))
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if len(decision.Addrs) != 1 || !decision.Addrs[0].Equal(net.ParseIP("93.184.216.34")) {
		t.Errorf("unexpected decision addrs: %v", decision.Addrs)
	}
}

func TestCheckURLRejectsLoopbackIPLiteral(t *testing.T) {
	g := New(Config{Resolver: &fakeResolver{}})

	_, err := g.CheckURL(context.Background(), mustParse(t, "https://127.0.0.1/"))
	if err == nil {
		t.Fatal("expected rejection of loopback literal")
	}
}

func TestCheckURLRejectsRebindingToPrivate(t *testing.T) {
	resolver := &fakeResolver{addrs: map[string][]net.IPAddr{
		"rdap.example": {
			{IP: net.ParseIP("93.184.216.34")},
			{IP: net.ParseIP("10.0.0.1")},
		},
	}}
	g := New(Config{Resolver: resolver})

	_, err := g.CheckURL(context.Background(), mustParse(t, "https://rdap.example/"))
	if err == nil {
		t.Fatal("expected rejection when any resolved address is non-global")
	}
}

func TestCheckURLAllowlist(t *testing.T) {
	resolver := &fakeResolver{addrs: map[string][]net.IPAddr{
		"rdap.example": {{IP: net.ParseIP("93.184.216.34")}},
	}}
	g := New(Config{
		Resolver:     resolver,
		AllowedHosts: map[string]bool{"rdap.other.example": true},
	})

	_, err := g.CheckURL(context.Background(), mustParse(t, "https://rdap.example/"))
	if err == nil {
		t.Fatal("expected rejection of host not on the allowlist")
	}
}

func TestCheckURLResolutionFailure(t *testing.T) {
	g := New(Config{Resolver: &fakeResolver{err: errors.New("boom")}})

	_, err := g.CheckURL(context.Background(), mustParse(t, "https://rdap.example/"))
	if err == nil {
		t.Fatal("expected rejection on resolver error")
	}
}
