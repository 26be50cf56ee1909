// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

// Package bootstrap implements RDAP server discovery (RFC 7484).
//
// Every RDAP query is answered by whichever server IANA delegates authority
// to for that object. This package downloads and caches IANA's four
// Service Registry files (dns.json, ipv4.json, ipv6.json, asn.json) and
// maps a canonical query to the ordered list of candidate RDAP base URLs.
//
// Basic usage:
//
//	c := bootstrap.NewClient(nil)
//	result, err := c.Lookup(ctx, bootstrap.DNS, "example.com")
//
// A Client caches each Service Registry file in memory (optionally also on
// disk, via cache.DiskCache) so repeated lookups across the process
// lifetime download each file at most once per cache timeout. Concurrent
// lookups against the same stale table coalesce into a single refresh.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/rdapify/rdap/bootstrap/cache"
	"github.com/rdapify/rdap/internal/ssrfguard"
)

// RegistryType names one of the four IANA Service Registry files.
type RegistryType int

const (
	DNS RegistryType = iota
	IPv4
	IPv6
	ASN
)

// Filename returns the JSON document name IANA publishes for r.
func (r RegistryType) Filename() string {
	switch r {
	case DNS:
		return "dns.json"
	case IPv4:
		return "ipv4.json"
	case IPv6:
		return "ipv6.json"
	case ASN:
		return "asn.json"
	default:
		panic("bootstrap: unknown RegistryType")
	}
}

func (r RegistryType) String() string {
	switch r {
	case DNS:
		return "dns"
	case IPv4:
		return "ipv4"
	case IPv6:
		return "ipv6"
	case ASN:
		return "asn"
	default:
		return "unknown"
	}
}

const (
	// DefaultBaseURL is where IANA publishes the Service Registry files.
	DefaultBaseURL = "https://data.iana.org/rdap/"

	// DefaultCacheTimeout is how long a downloaded table is considered fresh.
	DefaultCacheTimeout = 24 * time.Hour

	// maxBootstrapBodyBytes bounds how much of a Service Registry response
	// is read; these files are a few hundred KB today.
	maxBootstrapBodyBytes = 8 << 20
)

// registry is the lookup surface every table type implements.
type registry interface {
	Lookup(input string) (*Result, error)
}

// Result is the outcome of looking up a single query in one table.
type Result struct {
	// Query is the input, after any canonicalization applied to match the
	// table's key format (e.g. lowercasing and trailing-dot removal for DNS).
	Query string

	// Entry is the matching service key, or "" if nothing matched.
	Entry string

	// URLs is the matching entry's ordered list of RDAP base URLs.
	URLs []*url.URL
}

// Client looks up RDAP base URLs via the IANA bootstrap tables.
type Client struct {
	HTTP    *http.Client
	Guard   *ssrfguard.Guard
	BaseURL *url.URL
	Cache   cache.RegistryCache
	Logger  zerolog.Logger

	mu    sync.RWMutex
	group singleflight.Group

	tables map[RegistryType]registry
}

// NewClient builds a Client. A nil http.Client defaults to a new http.Client
// with a 30s timeout; Guard is always set to ssrfguard.New with the default,
// fully-restrictive policy.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	baseURL, _ := url.Parse(DefaultBaseURL)

	c := &Client{
		HTTP:    httpClient,
		Guard:   ssrfguard.New(ssrfguard.Config{}),
		BaseURL: baseURL,
		Cache:   cache.NewMemoryCache(),
		Logger:  zerolog.Nop(),
		tables:  make(map[RegistryType]registry),
	}
	c.Cache.SetTimeout(DefaultCacheTimeout)

	return c
}

// Lookup returns the RDAP base URLs for input under regType, downloading or
// refreshing the backing table first if it is missing or stale. Concurrent
// Lookups for the same stale regType share one underlying refresh.
func (c *Client) Lookup(ctx context.Context, regType RegistryType, input string) (*Result, error) {
	c.Logger.Debug().Str("registry", regType.String()).Str("input", input).Msg("bootstrap: lookup")

	if err := c.ensureFresh(ctx, regType); err != nil {
		return nil, err
	}

	c.mu.RLock()
	table := c.tables[regType]
	c.mu.RUnlock()

	if table == nil {
		return nil, fmt.Errorf("rdap: bootstrap: %s table unavailable", regType)
	}

	return table.Lookup(input)
}

func (c *Client) ensureFresh(ctx context.Context, regType RegistryType) error {
	c.mu.RLock()
	haveTable := c.tables[regType] != nil
	state := c.Cache.State(regType.Filename())
	c.mu.RUnlock()

	if haveTable && state == cache.Good {
		return nil
	}

	_, err, _ := c.group.Do(regType.String(), func() (interface{}, error) {
		return nil, c.refresh(ctx, regType)
	})
	if err != nil {
		c.mu.RLock()
		stillHave := c.tables[regType] != nil
		c.mu.RUnlock()
		if stillHave {
			// Keep serving the previously-loaded table; the next call
			// retries the refresh.
			return nil
		}
		return err
	}

	return nil
}

func (c *Client) refresh(ctx context.Context, regType RegistryType) error {
	filename := regType.Filename()

	if data, ok, err := c.loadFromCache(filename); err == nil && ok {
		table, parseErr := newTable(regType, data)
		if parseErr == nil {
			c.mu.Lock()
			c.tables[regType] = table
			c.mu.Unlock()
			return nil
		}
	}

	data, err := c.download(ctx, regType)
	if err != nil {
		return err
	}

	table, err := newTable(regType, data)
	if err != nil {
		return fmt.Errorf("rdap: bootstrap: parsing %s: %w", filename, err)
	}

	if err := c.Cache.Save(filename, data); err != nil {
		// A cache-write failure doesn't invalidate the freshly downloaded
		// table; it just means the next process start re-downloads.
	}

	c.mu.Lock()
	c.tables[regType] = table
	c.mu.Unlock()

	return nil
}

func (c *Client) loadFromCache(filename string) ([]byte, bool, error) {
	if c.Cache.State(filename) != cache.Good {
		return nil, false, nil
	}
	return c.Cache.Load(filename)
}

func (c *Client) download(ctx context.Context, regType RegistryType) ([]byte, error) {
	c.Logger.Debug().Str("registry", regType.String()).Msg("bootstrap: downloading registry file")

	ref, err := url.Parse(regType.Filename())
	if err != nil {
		return nil, err
	}
	target := c.BaseURL.ResolveReference(ref)

	decision, err := c.Guard.CheckURL(ctx, target)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	transport := c.HTTP.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if base, ok := transport.(*http.Transport); ok {
		pinned := base.Clone()
		pinned.DialContext = ssrfguard.PinnedDialContext(decision, base.DialContext)
		client := *c.HTTP
		client.Transport = pinned
		return doDownload(&client, req)
	}

	return doDownload(c.HTTP, req)
}

func doDownload(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rdap: bootstrap: %s returned HTTP %d", req.URL, resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBootstrapBodyBytes))
}

func newTable(regType RegistryType, json []byte) (registry, error) {
	switch regType {
	case DNS:
		return NewDNSRegistry(json)
	case IPv4:
		return NewNetRegistry(json, 4)
	case IPv6:
		return NewNetRegistry(json, 6)
	case ASN:
		return NewASNRegistry(json)
	default:
		return nil, fmt.Errorf("rdap: bootstrap: unknown registry type %d", regType)
	}
}
