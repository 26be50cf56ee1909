// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package bootstrap

import (
	"fmt"
	"net/url"
	"strings"
)

// DNSRegistry is the parsed form of dns.json: TLD label (or second-level
// registry label, e.g. "co.uk") to RDAP base URLs.
type DNSRegistry struct {
	Entries map[string][]*url.URL
}

// NewDNSRegistry parses a dns.json document, per RFC 7484 §4.
func NewDNSRegistry(json []byte) (*DNSRegistry, error) {
	r, err := parse(json)
	if err != nil {
		return nil, fmt.Errorf("rdap: parsing DNS bootstrap: %w", err)
	}

	return &DNSRegistry{Entries: r.Entries}, nil
}

// Lookup walks from the rightmost label of a canonical domain toward the
// root, returning the base URLs of the longest matching suffix.
func (d *DNSRegistry) Lookup(domain string) (*Result, error) {
	domain = strings.TrimSuffix(domain, ".")
	domain = strings.ToLower(domain)

	suffix := domain
	for {
		if urls, ok := d.Entries[suffix]; ok {
			return &Result{Query: domain, Entry: suffix, URLs: urls}, nil
		}

		if suffix == "" {
			break
		}

		if idx := strings.IndexByte(suffix, '.'); idx == -1 {
			suffix = ""
		} else {
			suffix = suffix[idx+1:]
		}
	}

	return &Result{Query: domain}, nil
}
