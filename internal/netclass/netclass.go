// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

// Package netclass classifies IP addresses into the address classes RFC
// 6890/RFC 4291 reserve for special use, so the SSRF guard can reject
// anything that isn't globally routable.
package netclass

import (
	"net"
	"strings"

	"github.com/c-robinson/iplib"
)

// Class is one address classification.
type Class int

const (
	Global Class = iota
	Loopback
	LinkLocal
	Private
	Multicast
	Unspecified
	Documentation
	Broadcast
	UniqueLocal
	Reserved
)

func (c Class) String() string {
	switch c {
	case Global:
		return "global"
	case Loopback:
		return "loopback"
	case LinkLocal:
		return "link-local"
	case Private:
		return "private"
	case Multicast:
		return "multicast"
	case Unspecified:
		return "unspecified"
	case Documentation:
		return "documentation"
	case Broadcast:
		return "broadcast"
	case UniqueLocal:
		return "unique-local"
	case Reserved:
		return "reserved"
	default:
		return "unknown"
	}
}

type reservation struct {
	net     iplib.Net
	class   Class
	isIPv6  bool
}

var reservations []reservation

func reserve(cidr string, class Class) {
	_, n, err := iplib.ParseCIDR(cidr)
	if err != nil {
		panic("netclass: bad built-in CIDR " + cidr)
	}
	reservations = append(reservations, reservation{
		net:    n,
		class:  class,
		isIPv6: strings.Contains(cidr, ":"),
	})
}

func init() {
	// IPv4, per spec.md §4.2.
	reserve("0.0.0.0/8", Reserved)
	reserve("10.0.0.0/8", Private)
	reserve("100.64.0.0/10", Reserved)
	reserve("127.0.0.0/8", Loopback)
	reserve("169.254.0.0/16", LinkLocal)
	reserve("172.16.0.0/12", Private)
	reserve("192.0.2.0/24", Documentation)
	reserve("192.168.0.0/16", Private)
	reserve("198.51.100.0/24", Documentation)
	reserve("203.0.113.0/24", Documentation)
	reserve("224.0.0.0/4", Multicast)
	reserve("240.0.0.0/4", Reserved)
	reserve("255.255.255.255/32", Broadcast)

	// IPv6.
	reserve("::/128", Unspecified)
	reserve("::1/128", Loopback)
	reserve("::ffff:0:0/96", Reserved) // IPv4-mapped, reclassified in Classify.
	reserve("2001:db8::/32", Documentation)
	reserve("fc00::/7", UniqueLocal)
	reserve("fe80::/10", LinkLocal)
	reserve("ff00::/8", Multicast)
}

// Classify returns the address class of ip. IPv4-mapped IPv6 addresses
// (::ffff:0:0/96) are reclassified using their embedded IPv4 address,
// since net.IP.To4 already unwraps them for us.
func Classify(ip net.IP) Class {
	if ip == nil {
		return Reserved
	}

	return classifyAddr(ip)
}

func classifyAddr(ip net.IP) Class {
	isIPv6 := ip.To4() == nil

	for _, r := range reservations {
		if r.isIPv6 != isIPv6 {
			continue
		}
		if r.net.Contains(ip) {
			return r.class
		}
	}

	if ip.IsMulticast() {
		return Multicast
	}

	return Global
}

// Policy controls which non-Global classes the SSRF guard rejects.
// The zero value rejects every non-Global class, matching spec.md §4.2's
// default.
type Policy struct {
	AllowLoopback      bool
	AllowLinkLocal     bool
	AllowPrivate       bool
	AllowMulticast     bool
	AllowUnspecified   bool
	AllowDocumentation bool
	AllowBroadcast     bool
	AllowUniqueLocal   bool
	AllowReserved      bool
}

// IsForbidden reports whether addr's class is rejected by policy.
func IsForbidden(addr net.IP, policy Policy) bool {
	switch Classify(addr) {
	case Global:
		return false
	case Loopback:
		return !policy.AllowLoopback
	case LinkLocal:
		return !policy.AllowLinkLocal
	case Private:
		return !policy.AllowPrivate
	case Multicast:
		return !policy.AllowMulticast
	case Unspecified:
		return !policy.AllowUnspecified
	case Documentation:
		return !policy.AllowDocumentation
	case Broadcast:
		return !policy.AllowBroadcast
	case UniqueLocal:
		return !policy.AllowUniqueLocal
	case Reserved:
		return !policy.AllowReserved
	default:
		return true
	}
}
