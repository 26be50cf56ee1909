// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package fetch

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/rdapify/rdap/internal/ssrfguard"
)

func newTestFetcher(t *testing.T) (*Fetcher, *http.Client) {
	t.Helper()

	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)

	// Every test target below is an IP literal, so CheckURL never consults
	// a resolver; the default net.DefaultResolver is fine to leave in place.
	guard := ssrfguard.New(ssrfguard.Config{})

	return New(Options{HTTPClient: client, Guard: guard}), client
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q): %v", raw, err)
	}
	return u
}

func TestGetSuccess(t *testing.T) {
	f, _ := newTestFetcher(t)

	resp := httpmock.NewStringResponse(200, `{"handle":"H"}`)
	resp.Header.Set("Content-Type", "application/rdap+json")
	httpmock.RegisterResponder("GET", "https://93.184.216.34/domain/example.com",
		httpmock.ResponderFromResponse(resp))

	result := f.Get(context.Background(), mustURL(t, "https://93.184.216.34/domain/example.com"), nil)
	if result.Outcome != Success {
		t.Fatalf("Outcome = %v, err = %v", result.Outcome, result.Err)
	}
}

func TestGetNotFound(t *testing.T) {
	f, _ := newTestFetcher(t)

	httpmock.RegisterResponder("GET", "https://93.184.216.34/domain/missing.com",
		httpmock.NewStringResponder(404, `{}`))

	result := f.Get(context.Background(), mustURL(t, "https://93.184.216.34/domain/missing.com"), nil)
	if result.Outcome != NotFoundOutcome {
		t.Fatalf("Outcome = %v, want NotFoundOutcome", result.Outcome)
	}
}

func TestGetRetryAfter(t *testing.T) {
	f, _ := newTestFetcher(t)

	resp := httpmock.NewStringResponse(429, `{}`)
	resp.Header.Set("Retry-After", "2")
	httpmock.RegisterResponder("GET", "https://93.184.216.34/domain/example.com",
		httpmock.ResponderFromResponse(resp))

	result := f.Get(context.Background(), mustURL(t, "https://93.184.216.34/domain/example.com"), nil)
	if result.Outcome != RetryAfterOutcome || result.RetryAfter != 2*time.Second {
		t.Fatalf("result = %+v", result)
	}
}

func TestGetServerErrorFailsOver(t *testing.T) {
	f, _ := newTestFetcher(t)

	httpmock.RegisterResponder("GET", "https://93.184.216.34/domain/example.com",
		httpmock.NewStringResponder(503, `{}`))

	result := f.Get(context.Background(), mustURL(t, "https://93.184.216.34/domain/example.com"), nil)
	if result.Outcome != FailoverOutcome {
		t.Fatalf("Outcome = %v, want FailoverOutcome", result.Outcome)
	}
}

func TestGetRejectsSSRFTarget(t *testing.T) {
	f, _ := newTestFetcher(t)

	result := f.Get(context.Background(), mustURL(t, "https://127.0.0.1/domain/example.com"), nil)
	if result.Outcome != SSRFBlockedOutcome {
		t.Fatalf("Outcome = %v, want SSRFBlockedOutcome", result.Outcome)
	}
	if result.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want 127.0.0.1", result.Host)
	}
}

func TestGetTerminatesOn501(t *testing.T) {
	f, _ := newTestFetcher(t)

	httpmock.RegisterResponder("GET", "https://93.184.216.34/domain/example.com",
		httpmock.NewStringResponder(501, `{}`))

	result := f.Get(context.Background(), mustURL(t, "https://93.184.216.34/domain/example.com"), nil)
	if result.Outcome != RejectedOutcome {
		t.Fatalf("Outcome = %v, want RejectedOutcome (501 is terminal)", result.Outcome)
	}
}
