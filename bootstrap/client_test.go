// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package bootstrap

import (
	"context"
	"net"
	"net/http"
	"sync"
	"testing"

	"github.com/jarcoal/httpmock"

	"github.com/rdapify/rdap/internal/ssrfguard"
)

// fakeResolver always resolves to a public address, so tests don't depend
// on real DNS resolution of data.iana.org.
type fakeResolver struct{}

func (fakeResolver) LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error) {
	return []net.IPAddr{{IP: net.ParseIP("93.184.216.34")}}, nil
}

func newTestClient() *Client {
	c := NewClient(&http.Client{})
	c.Guard = ssrfguard.New(ssrfguard.Config{Resolver: fakeResolver{}})
	return c
}

func TestClientLookupDownloadsAndCaches(t *testing.T) {
	c := newTestClient()
	httpmock.ActivateNonDefault(c.HTTP)
	defer httpmock.DeactivateAndReset()

	calls := 0
	httpmock.RegisterResponder("GET", "https://data.iana.org/rdap/dns.json",
		func(req *http.Request) (*http.Response, error) {
			calls++
			return httpmock.NewStringResponse(200, dnsTestDocument), nil
		})

	ctx := context.Background()

	result, err := c.Lookup(ctx, DNS, "example.com")
	if err != nil {
		t.Fatal(err)
	}
	if result.Entry != "com" {
		t.Errorf("Entry = %q, want com", result.Entry)
	}

	if _, err := c.Lookup(ctx, DNS, "example.co.uk"); err != nil {
		t.Fatal(err)
	}

	if calls != 1 {
		t.Errorf("expected 1 download, got %d", calls)
	}
}

func TestClientLookupCoalescesConcurrentRefresh(t *testing.T) {
	c := newTestClient()
	httpmock.ActivateNonDefault(c.HTTP)
	defer httpmock.DeactivateAndReset()

	var mu sync.Mutex
	calls := 0
	httpmock.RegisterResponder("GET", "https://data.iana.org/rdap/asn.json",
		func(req *http.Request) (*http.Response, error) {
			mu.Lock()
			calls++
			mu.Unlock()
			return httpmock.NewStringResponse(200, asnTestDocument), nil
		})

	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Lookup(ctx, ASN, "15169"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("expected concurrent lookups to coalesce into 1 download, got %d", calls)
	}
}

func TestClientLookupSurfacesDownloadError(t *testing.T) {
	c := newTestClient()
	httpmock.ActivateNonDefault(c.HTTP)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://data.iana.org/rdap/ipv4.json",
		httpmock.NewStringResponder(500, "server error"))

	if _, err := c.Lookup(context.Background(), IPv4, "8.8.8.8"); err == nil {
		t.Error("expected error from failed bootstrap download")
	}
}
