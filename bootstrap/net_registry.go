// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package bootstrap

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sort"
)

// NetRegistry is the parsed form of ipv4.json/ipv6.json: CIDR block to RDAP
// base URLs, indexed by prefix length for longest-prefix-match lookup.
type NetRegistry struct {
	// byMaskLen groups entries by prefix length, each group sorted by
	// network address; Lookup scans each group in order.
	byMaskLen  map[int][]netEntry
	numIPBytes int
}

type netEntry struct {
	net  *net.IPNet
	urls []*url.URL
}

// NewNetRegistry parses an ipv4.json (ipVersion=4) or ipv6.json
// (ipVersion=6) document, per RFC 7484 §5.1/§5.2.
func NewNetRegistry(json []byte, ipVersion int) (*NetRegistry, error) {
	if ipVersion != 4 && ipVersion != 6 {
		return nil, fmt.Errorf("rdap: unknown IP version %d", ipVersion)
	}

	r, err := parse(json)
	if err != nil {
		return nil, fmt.Errorf("rdap: parsing net bootstrap: %w", err)
	}

	numIPBytes := net.IPv4len
	if ipVersion == 6 {
		numIPBytes = net.IPv6len
	}

	n := &NetRegistry{
		byMaskLen:  make(map[int][]netEntry),
		numIPBytes: numIPBytes,
	}

	for cidr, urls := range r.Entries {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil || len(ipNet.IP) != numIPBytes {
			continue
		}

		size, _ := ipNet.Mask.Size()
		n.byMaskLen[size] = append(n.byMaskLen[size], netEntry{net: ipNet, urls: urls})
	}

	for size := range n.byMaskLen {
		entries := n.byMaskLen[size]
		sort.Slice(entries, func(i, j int) bool {
			return bytes.Compare(entries[i].net.IP, entries[j].net.IP) < 0
		})
		n.byMaskLen[size] = entries
	}

	return n, nil
}

// Lookup returns the base URLs of the longest prefix containing ip.
// ip may be a bare address or a CIDR; a bare address is treated as a /32
// (IPv4) or /128 (IPv6).
func (n *NetRegistry) Lookup(ip string) (*Result, error) {
	lookupNet, err := n.parseLookupInput(ip)
	if err != nil {
		return nil, err
	}

	lookupMaskLen, _ := lookupNet.Mask.Size()

	var bestEntry string
	var bestURLs []*url.URL
	bestMaskLen := -1

	for maskLen, entries := range n.byMaskLen {
		if maskLen > lookupMaskLen || maskLen < bestMaskLen {
			continue
		}

		// Entries are sorted by network address per mask length; membership
		// isn't predicate-monotonic across a CIDR block boundary, so a plain
		// scan of this (small, per-length) group is used rather than a
		// binary search.
		for i := range entries {
			if entries[i].net.Contains(lookupNet.IP) {
				bestEntry = entries[i].net.String()
				bestURLs = entries[i].urls
				bestMaskLen = maskLen
				break
			}
		}
	}

	return &Result{Query: ip, Entry: bestEntry, URLs: bestURLs}, nil
}

func (n *NetRegistry) parseLookupInput(input string) (*net.IPNet, error) {
	if _, ipNet, err := net.ParseCIDR(input); err == nil {
		if len(ipNet.IP) != n.numIPBytes {
			return nil, errors.New("rdap: lookup address has the wrong IP protocol version")
		}
		return ipNet, nil
	}

	addr := net.ParseIP(input)
	if addr == nil {
		return nil, fmt.Errorf("rdap: invalid IP address %q", input)
	}

	var ip net.IP
	var bits int
	if n.numIPBytes == net.IPv4len {
		ip = addr.To4()
		bits = 32
	} else {
		ip = addr.To16()
		bits = 128
	}

	if ip == nil {
		return nil, errors.New("rdap: lookup address has the wrong IP protocol version")
	}

	return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}, nil
}
