// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

// Package fetch performs the SSRF-guarded HTTPS GET the client orchestrator
// uses against RDAP servers, one attempt per call; retries and failover are
// left to the caller.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/rdapify/rdap/internal/retry"
	"github.com/rdapify/rdap/internal/ssrfguard"
)

// Outcome classifies how an attempt against one base URL ended, so the
// caller's retry/failover loop (spec.md §4.5 steps 6-9) can decide what to
// do next without re-inspecting the HTTP response.
type Outcome int

const (
	Success Outcome = iota
	NotFoundOutcome
	RetryAfterOutcome
	RejectedOutcome
	SSRFBlockedOutcome
	FailoverOutcome
)

// Result is what one fetch attempt produces.
type Result struct {
	Outcome    Outcome
	Body       json.RawMessage
	StatusCode int
	RetryAfter time.Duration
	Host       string // set for SSRFBlockedOutcome
	Err        error
}

// Options configures a Fetcher.
type Options struct {
	HTTPClient         *http.Client
	Guard              *ssrfguard.Guard
	MaxRedirects       int
	MaxBodyBytes       int64
	ExtraHeaders       http.Header
	AllowFailoverOn451 bool
	Logger             zerolog.Logger
}

// Fetcher issues guarded HTTPS GETs against one target URL per Get and
// classifies the result per spec.md §4.5.
type Fetcher struct {
	opts Options
}

func New(opts Options) *Fetcher {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.MaxRedirects == 0 {
		opts.MaxRedirects = 5
	}
	if opts.MaxBodyBytes == 0 {
		opts.MaxBodyBytes = 2 << 20
	}
	return &Fetcher{opts: opts}
}

// Get performs one attempt against target, following redirects (each
// re-validated by the guard) up to MaxRedirects. extraHeaders is merged on
// top of Options.ExtraHeaders, letting a single call add or override
// headers without reconfiguring the Fetcher.
func (f *Fetcher) Get(ctx context.Context, target *url.URL, extraHeaders http.Header) Result {
	current := target

	for hop := 0; ; hop++ {
		f.opts.Logger.Debug().Str("url", current.String()).Int("hop", hop).Msg("fetch: requesting")

		decision, err := f.opts.Guard.CheckURL(ctx, current)
		if err != nil {
			return Result{Outcome: SSRFBlockedOutcome, Host: current.Hostname(), Err: err}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current.String(), nil)
		if err != nil {
			return Result{Outcome: RejectedOutcome, Err: err}
		}
		req.Header.Set("Accept", "application/rdap+json, application/json;q=0.5")
		for k, values := range f.opts.ExtraHeaders {
			for _, v := range values {
				req.Header.Add(k, v)
			}
		}
		for k, values := range extraHeaders {
			for _, v := range values {
				req.Header.Add(k, v)
			}
		}

		client := f.pinnedClient(decision)

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return Result{Outcome: FailoverOutcome, Err: ctx.Err()}
			}
			return Result{Outcome: FailoverOutcome, Err: err}
		}

		result, redirectTo := f.classify(resp, current)
		if redirectTo != nil && hop < f.opts.MaxRedirects {
			current = redirectTo
			continue
		}
		if redirectTo != nil {
			return Result{Outcome: FailoverOutcome, Err: fmt.Errorf("rdap: exceeded %d redirects", f.opts.MaxRedirects)}
		}
		f.opts.Logger.Debug().Str("url", current.String()).Int("status", result.StatusCode).Msg("fetch: response")
		return result
	}
}

// pinnedClient wraps HTTPClient so it dials one of decision's
// already-classified addresses instead of re-resolving the hostname. If
// Transport isn't a *http.Transport (e.g. a test RoundTripper that never
// dials), pinning is skipped: CheckURL has already validated the target,
// and there's no dial step left to pin.
func (f *Fetcher) pinnedClient(decision *ssrfguard.Decision) *http.Client {
	client := *f.opts.HTTPClient
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	if base, ok := client.Transport.(*http.Transport); ok {
		pinned := base.Clone()
		pinned.DialContext = ssrfguard.PinnedDialContext(decision, base.DialContext)
		client.Transport = pinned
	} else if client.Transport == nil {
		base := http.DefaultTransport.(*http.Transport)
		pinned := base.Clone()
		pinned.DialContext = ssrfguard.PinnedDialContext(decision, base.DialContext)
		client.Transport = pinned
	}

	return &client
}

// classify turns an *http.Response into a Result, or a redirect target to
// follow next.
func (f *Fetcher) classify(resp *http.Response, current *url.URL) (Result, *url.URL) {
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		loc := resp.Header.Get("Location")
		if loc == "" {
			return Result{Outcome: FailoverOutcome, Err: fmt.Errorf("rdap: redirect with no Location")}, nil
		}
		target, err := current.Parse(loc)
		if err != nil || !target.IsAbs() || target.Scheme != "https" {
			return Result{Outcome: FailoverOutcome, Err: fmt.Errorf("rdap: unacceptable redirect target %q", loc)}, nil
		}
		return Result{}, target

	case resp.StatusCode == http.StatusNotFound:
		return Result{Outcome: NotFoundOutcome, StatusCode: resp.StatusCode}, nil

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable:
		if d, ok := retry.ParseRetryAfter(resp.Header, time.Now()); ok {
			return Result{Outcome: RetryAfterOutcome, StatusCode: resp.StatusCode, RetryAfter: d}, nil
		}
		return Result{Outcome: FailoverOutcome, StatusCode: resp.StatusCode}, nil

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		if resp.StatusCode == http.StatusForbidden || (resp.StatusCode == 451 && f.opts.AllowFailoverOn451) {
			return Result{Outcome: FailoverOutcome, StatusCode: resp.StatusCode}, nil
		}
		return Result{Outcome: RejectedOutcome, StatusCode: resp.StatusCode}, nil

	case resp.StatusCode == http.StatusNotImplemented:
		// 501 means this server will never support the method/resource; no
		// amount of retrying or failing over to another candidate helps.
		return Result{Outcome: RejectedOutcome, StatusCode: resp.StatusCode}, nil

	case resp.StatusCode >= 500:
		return Result{Outcome: FailoverOutcome, StatusCode: resp.StatusCode}, nil

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		contentType := resp.Header.Get("Content-Type")
		if !acceptableContentType(contentType) {
			return Result{Outcome: RejectedOutcome, StatusCode: resp.StatusCode,
				Err: fmt.Errorf("rdap: unacceptable content type %q", contentType)}, nil
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodyBytes+1))
		if err != nil {
			return Result{Outcome: FailoverOutcome, Err: err}, nil
		}
		if int64(len(body)) > f.opts.MaxBodyBytes {
			return Result{Outcome: RejectedOutcome, Err: fmt.Errorf("rdap: response body exceeds %d bytes", f.opts.MaxBodyBytes)}, nil
		}
		if !json.Valid(body) {
			return Result{Outcome: RejectedOutcome, Err: fmt.Errorf("rdap: response body is not valid JSON")}, nil
		}
		return Result{Outcome: Success, StatusCode: resp.StatusCode, Body: json.RawMessage(body)}, nil

	default:
		return Result{Outcome: FailoverOutcome, StatusCode: resp.StatusCode}, nil
	}
}

func acceptableContentType(ct string) bool {
	for _, prefix := range []string{"application/rdap+json", "application/json"} {
		if len(ct) >= len(prefix) && ct[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
