// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

// Package rdap implements a client for the Registration Data Access
// Protocol (RFC 7480-7484): given a domain name, IP address, or
// Autonomous System Number, it locates the authoritative RDAP server via
// IANA bootstrap, fetches and normalizes the response into a uniform
// shape, and redacts personally identifiable information by default.
//
// Quick usage:
//
//	client := rdap.NewClient(rdap.New())
//	domain, err := client.Domain(context.Background(), "example.com", nil)
package rdap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rdapify/rdap/bootstrap"
	"github.com/rdapify/rdap/internal/fetch"
	"github.com/rdapify/rdap/internal/resultcache"
)

// Client composes the validator, bootstrap registry, fetcher, normalizer,
// redactor and cache into the three public query operations.
type Client struct {
	cfg       *Config
	bootstrap *bootstrap.Client
	fetcher   *fetch.Fetcher

	inflight singleflight.Group
}

// NewClient builds a Client from cfg. A nil cfg uses New()'s defaults.
func NewClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = New()
	}

	bc := bootstrap.NewClient(cfg.HTTPClient)
	bc.Guard = cfg.SSRFGuard
	bc.Logger = cfg.Logger
	if cfg.BootstrapCache != nil {
		bc.Cache = cfg.BootstrapCache
	}

	f := fetch.New(fetch.Options{
		HTTPClient:         cfg.HTTPClient,
		Guard:              cfg.SSRFGuard,
		MaxRedirects:       cfg.MaxRedirects,
		MaxBodyBytes:       cfg.MaxBodyBytes,
		AllowFailoverOn451: cfg.AllowFailoverOn451,
		Logger:             cfg.Logger,
	})

	return &Client{cfg: cfg, bootstrap: bc, fetcher: f}
}

// Domain resolves a domain name query. opts may be nil to use client-level
// configuration for every per-call override.
func (c *Client) Domain(ctx context.Context, input string, opts *CallOptions) (*Domain, error) {
	canonical, err := CanonicalizeDomain(input)
	if err != nil {
		return nil, err
	}
	query := Query{Kind: QueryDomain, Domain: canonical}

	raw, err := c.resolve(ctx, query, opts, bootstrap.DNS, canonical)
	if err != nil {
		return nil, err
	}

	domain, err := NormalizeDomain(raw)
	if err != nil {
		return nil, err
	}

	return c.finish(domain, opts).(*Domain), nil
}

// IP resolves an IP address query.
func (c *Client) IP(ctx context.Context, input string, opts *CallOptions) (*IPNetwork, error) {
	ip, err := CanonicalizeIP(input)
	if err != nil {
		return nil, err
	}
	query := Query{Kind: QueryIP, IP: ip}

	regType := bootstrap.IPv4
	if len(ip) == 16 {
		regType = bootstrap.IPv6
	}

	raw, err := c.resolve(ctx, query, opts, regType, ip.String())
	if err != nil {
		return nil, err
	}

	network, err := NormalizeIPNetwork(raw)
	if err != nil {
		return nil, err
	}

	return c.finish(network, opts).(*IPNetwork), nil
}

// ASN resolves an Autonomous System Number query.
func (c *Client) ASN(ctx context.Context, input string, opts *CallOptions) (*Autnum, error) {
	asn, err := CanonicalizeASN(input)
	if err != nil {
		return nil, err
	}
	query := Query{Kind: QueryASN, ASN: asn}

	raw, err := c.resolve(ctx, query, opts, bootstrap.ASN, uitoa(asn))
	if err != nil {
		return nil, err
	}

	autnum, err := NormalizeAutnum(raw)
	if err != nil {
		return nil, err
	}

	return c.finish(autnum, opts).(*Autnum), nil
}

// resolve implements steps 2-7 of the ten-step pipeline (spec.md §4.10):
// cache lookup, in-flight coalescing, bootstrap, fetch. It returns the
// pre-redaction JSON payload so each call site normalizes into its own
// response type.
func (c *Client) resolve(ctx context.Context, query Query, opts *CallOptions, regType bootstrap.RegistryType, bootstrapInput string) (json.RawMessage, error) {
	fingerprint := query.Fingerprint()
	c.cfg.Logger.Debug().Str("fingerprint", fingerprint).Msg("rdap: resolving query")

	bypassCache := opts != nil && opts.BypassCache
	if !bypassCache && c.cfg.Cache != nil {
		if entry, ok := c.cfg.Cache.Get(fingerprint); ok {
			c.cfg.Logger.Debug().Str("fingerprint", fingerprint).Msg("rdap: cache hit")
			return json.RawMessage(entry.Value), nil
		}
	}

	timeout := c.cfg.Timeout
	if opts != nil && opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type coalesced struct {
		raw json.RawMessage
		err error
	}

	v, err, _ := c.inflight.Do(fingerprint, func() (interface{}, error) {
		raw, err := c.fetchAndStore(callCtx, query, opts, regType, bootstrapInput, fingerprint)
		return coalesced{raw: raw, err: err}, err
	})
	if err != nil {
		return nil, c.classifyErr(callCtx, err)
	}

	return v.(coalesced).raw, nil
}

func (c *Client) fetchAndStore(ctx context.Context, query Query, opts *CallOptions, regType bootstrap.RegistryType, bootstrapInput, fingerprint string) (json.RawMessage, error) {
	result, err := c.bootstrap.Lookup(ctx, regType, bootstrapInput)
	if err != nil {
		e := newError(BootstrapUnavailable, err.Error())
		e.Wrapped = err
		return nil, e
	}
	if len(result.URLs) == 0 {
		return nil, newError(NoAuthoritativeServer, fmt.Sprintf("no authoritative server for %s", fingerprint))
	}

	raw, err := c.fetchFromCandidates(ctx, query, opts, result)
	if err != nil {
		return nil, err
	}

	if c.cfg.Cache != nil && c.cfg.TTL > 0 {
		c.cfg.Cache.Put(fingerprint, resultcache.Entry{
			Value:    []byte(raw),
			StoredAt: time.Now(),
			TTL:      c.cfg.TTL,
		})
	}

	return raw, nil
}

func (c *Client) fetchFromCandidates(ctx context.Context, query Query, opts *CallOptions, result *bootstrap.Result) (json.RawMessage, error) {
	policy := c.cfg.RetryPolicy
	if opts != nil && opts.MaxRetries > 0 {
		policy.MaxRetries = opts.MaxRetries
	}
	backOff := policy.NewBackOff()

	var extraHeaders http.Header
	if opts != nil {
		extraHeaders = opts.ExtraHeaders
	}

	attempt := 0
	for {
		for _, base := range result.URLs {
			if err := ctx.Err(); err != nil {
				if err == context.DeadlineExceeded {
					return nil, newError(Timeout, "deadline exceeded")
				}
				return nil, newError(Cancelled, "context cancelled")
			}

			target, err := buildTargetURL(base, query.Path())
			if err != nil {
				continue
			}
			res := c.fetcher.Get(ctx, target, extraHeaders)

			switch res.Outcome {
			case fetch.Success:
				return res.Body, nil
			case fetch.NotFoundOutcome:
				return nil, newError(NotFound, "object not found")
			case fetch.RejectedOutcome:
				return nil, &Error{Kind: ServerRejected, Status: res.StatusCode, Message: errString(res.Err), Timestamp: timeNow()}
			case fetch.SSRFBlockedOutcome:
				return nil, &Error{Kind: SsrfBlocked, Host: res.Host, Message: errString(res.Err), Timestamp: timeNow()}
			case fetch.RetryAfterOutcome:
				sleepCtx(ctx, res.RetryAfter)
				continue
			case fetch.FailoverOutcome:
				continue
			}
		}

		attempt++
		delay := backOff.NextBackOff()
		if delay == retryStop {
			return nil, newError(NetworkError, fmt.Sprintf("exhausted candidates after %d attempts", attempt))
		}
		sleepCtx(ctx, delay)
	}
}

// retryStop mirrors backoff.Stop (-1) without importing the package here
// just for a sentinel comparison.
const retryStop = -1

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (c *Client) classifyErr(ctx context.Context, err error) error {
	if rdapErr, ok := err.(*Error); ok {
		return rdapErr
	}
	if ctx.Err() != nil {
		return newError(Cancelled, ctx.Err().Error())
	}
	return newError(NetworkError, err.Error())
}

// finish applies per-call (or client-level) redaction to a copy of resp,
// releasing any coalesced waiters with the pre-redaction value already
// handled by singleflight.Do's own fan-out.
func (c *Client) finish(resp interface{}, opts *CallOptions) interface{} {
	policy := c.cfg.Redaction
	if opts != nil && opts.DisableRedact {
		return resp
	}
	return Redact(resp, policy)
}

// buildTargetURL appends path onto base per RFC 7482 §3, assuming a single
// trailing slash on base (stripped if duplicated, per spec.md §6).
func buildTargetURL(base *url.URL, path string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, err
	}

	resolved := *base
	resolved.Path = strings.TrimRight(base.Path, "/") + "/" + ref.Path
	resolved.RawQuery = ref.RawQuery
	return &resolved, nil
}
