// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package bootstrap

import "testing"

const dnsTestDocument = `{
  "description": "Some text",
  "publication": "2024-01-01T00:00:00Z",
  "version": "1.0",
  "services": [
    [["com"], ["https://example.com/", "http://example.com/"]],
    [["co.uk"], ["https://rdap.nic.uk/"]]
  ]
}`

func TestDNSRegistryLookup(t *testing.T) {
	d, err := NewDNSRegistry([]byte(dnsTestDocument))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		query     string
		wantEntry string
		wantURLs  int
	}{
		{"example.com", "com", 2},
		{"sub.example.com", "com", 2},
		{"WWW.EXAMPLE.COM.", "com", 2},
		{"example.co.uk", "co.uk", 1},
		{"example.xyz", "", 0},
	}

	for _, tt := range tests {
		result, err := d.Lookup(tt.query)
		if err != nil {
			t.Errorf("Lookup(%q) error: %v", tt.query, err)
			continue
		}
		if result.Entry != tt.wantEntry {
			t.Errorf("Lookup(%q).Entry = %q, want %q", tt.query, result.Entry, tt.wantEntry)
		}
		if len(result.URLs) != tt.wantURLs {
			t.Errorf("Lookup(%q) returned %d URLs, want %d", tt.query, len(result.URLs), tt.wantURLs)
		}
	}
}
