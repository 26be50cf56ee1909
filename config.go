// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package rdap

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/rdapify/rdap/bootstrap/cache"
	"github.com/rdapify/rdap/internal/resultcache"
	"github.com/rdapify/rdap/internal/retry"
	"github.com/rdapify/rdap/internal/ssrfguard"
)

// Config holds Client-level defaults. Build one with New(options...), which
// fills in the defaults; a bare Config{} has no SSRFGuard and a zero Timeout
// and is not usable as is.
type Config struct {
	// Timeout is the default total-deadline for a public call.
	Timeout time.Duration

	// MaxRedirects bounds how many HTTP redirects the fetcher follows.
	MaxRedirects int

	// MaxBodyBytes caps the size of a response body the fetcher will read.
	MaxBodyBytes int64

	// AllowFailoverOn451 treats a 451 Unavailable For Legal Reasons
	// response as failover-eligible instead of a terminal rejection. Off
	// by default: a 451 usually means every candidate in the same
	// jurisdiction will answer the same way, so retrying is pointless
	// unless the bootstrap entry lists redundant servers elsewhere.
	AllowFailoverOn451 bool

	// RetryPolicy governs attempt count and backoff across the whole
	// candidate URL list.
	RetryPolicy retry.Policy

	// SSRFGuard validates every outbound URL, including bootstrap fetches
	// and redirect targets.
	SSRFGuard *ssrfguard.Guard

	// Cache stores the raw, pre-redaction RDAP response bodies keyed by
	// fingerprint. A nil Cache disables result caching.
	Cache resultcache.Cache
	TTL   time.Duration

	// Redaction is applied to a copy of the normalized response before it
	// is returned to the caller; it never touches the cached value.
	Redaction RedactionPolicy

	// HTTPClient is used for RDAP and bootstrap requests. A nil value
	// defaults to an http.Client whose Timeout field is set to Timeout.
	HTTPClient *http.Client

	// Logger receives debug/trace-level progress lines. The zero value
	// (zerolog.Nop()) is silent.
	Logger zerolog.Logger

	// BootstrapCache stores the downloaded IANA Service Registry files. A
	// nil value leaves bootstrap.NewClient's in-memory default in place;
	// set it to a *cache.DiskCache to persist bootstrap tables across
	// process restarts.
	BootstrapCache cache.RegistryCache
}

// Option configures a Config.
type Option func(*Config)

// New builds a Config from the teacher-style functional options, starting
// from sane defaults and layering each Option on top.
func New(options ...Option) *Config {
	cfg := &Config{
		Timeout:      30 * time.Second,
		MaxRedirects: 5,
		MaxBodyBytes: 2 << 20,
		RetryPolicy:  retry.DefaultPolicy(),
		SSRFGuard:    ssrfguard.New(ssrfguard.Config{}),
		Cache:        resultcache.New(1024, time.Hour),
		TTL:          15 * time.Minute,
		Redaction:    DefaultRedactionPolicy(),
		Logger:       zerolog.Nop(),
	}

	for _, opt := range options {
		opt(cfg)
	}

	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return cfg
}

func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

func WithMaxRedirects(n int) Option {
	return func(c *Config) { c.MaxRedirects = n }
}

func WithMaxBodyBytes(n int64) Option {
	return func(c *Config) { c.MaxBodyBytes = n }
}

func WithAllowFailoverOn451(allow bool) Option {
	return func(c *Config) { c.AllowFailoverOn451 = allow }
}

func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Config) { c.RetryPolicy = p }
}

func WithSSRFGuard(g *ssrfguard.Guard) Option {
	return func(c *Config) { c.SSRFGuard = g }
}

func WithCache(cache resultcache.Cache, ttl time.Duration) Option {
	return func(c *Config) {
		c.Cache = cache
		c.TTL = ttl
	}
}

func WithRedactionPolicy(p RedactionPolicy) Option {
	return func(c *Config) { c.Redaction = p }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Config) { c.HTTPClient = h }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

func WithBootstrapCache(rc cache.RegistryCache) Option {
	return func(c *Config) { c.BootstrapCache = rc }
}

// CallOptions carries per-call overrides. Zero values mean "inherit from
// Config"; DisableRedact and BypassCache are the exceptions, since false
// is their natural "inherit the safe default" zero value already.
type CallOptions struct {
	Timeout       time.Duration
	MaxRetries    int
	DisableRedact bool
	BypassCache   bool
	ExtraHeaders  http.Header
}
