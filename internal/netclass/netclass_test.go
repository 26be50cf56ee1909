// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package netclass

import (
	"net"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		addr string
		want Class
	}{
		{"8.8.8.8", Global},
		{"127.0.0.1", Loopback},
		{"10.1.2.3", Private},
		{"172.16.0.5", Private},
		{"192.168.1.1", Private},
		{"169.254.1.1", LinkLocal},
		{"192.0.2.1", Documentation},
		{"198.51.100.1", Documentation},
		{"203.0.113.1", Documentation},
		{"224.0.0.1", Multicast},
		{"255.255.255.255", Broadcast},
		{"0.0.0.0", Reserved},
		{"240.0.0.1", Reserved},
		{"2001:db8::1", Documentation},
		{"::1", Loopback},
		{"::", Unspecified},
		{"fe80::1", LinkLocal},
		{"fc00::1", UniqueLocal},
		{"ff02::1", Multicast},
		{"2606:4700:4700::1111", Global},
		{"::ffff:127.0.0.1", Loopback},
		{"::ffff:8.8.8.8", Global},
	}

	for _, tt := range tests {
		ip := net.ParseIP(tt.addr)
		if ip == nil {
			t.Fatalf("net.ParseIP(%q) failed", tt.addr)
		}
		if got := Classify(ip); got != tt.want {
			t.Errorf("Classify(%s) = %s, want %s", tt.addr, got, tt.want)
		}
	}
}

func TestIsForbiddenDefaultPolicy(t *testing.T) {
	forbidden := []string{"127.0.0.1", "10.0.0.1", "169.254.1.1", "::1", "fc00::1"}
	for _, addr := range forbidden {
		if !IsForbidden(net.ParseIP(addr), Policy{}) {
			t.Errorf("IsForbidden(%s, zero policy) = false, want true", addr)
		}
	}

	if IsForbidden(net.ParseIP("93.184.216.34"), Policy{}) {
		t.Error("IsForbidden(93.184.216.34, zero policy) = true, want false")
	}
}

func TestIsForbiddenPermissivePolicy(t *testing.T) {
	policy := Policy{AllowLoopback: true, AllowPrivate: true}

	if IsForbidden(net.ParseIP("127.0.0.1"), policy) {
		t.Error("IsForbidden(127.0.0.1) = true with AllowLoopback, want false")
	}
	if IsForbidden(net.ParseIP("10.0.0.1"), policy) {
		t.Error("IsForbidden(10.0.0.1) = true with AllowPrivate, want false")
	}
	if !IsForbidden(net.ParseIP("169.254.1.1"), policy) {
		t.Error("IsForbidden(169.254.1.1) = false, want true (link-local not allowed)")
	}
}
