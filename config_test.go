// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package rdap

import (
	"net/http"
	"testing"
	"time"

	"github.com/rdapify/rdap/internal/resultcache"
	"github.com/rdapify/rdap/internal/retry"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRedirects != 5 {
		t.Errorf("MaxRedirects = %d, want 5", cfg.MaxRedirects)
	}
	if cfg.Cache == nil {
		t.Error("Cache should default to a non-nil cache")
	}
	if cfg.SSRFGuard == nil {
		t.Error("SSRFGuard should default to a non-nil guard")
	}
	if cfg.HTTPClient == nil {
		t.Error("HTTPClient should default to a non-nil client")
	}
	if cfg.HTTPClient.Timeout != cfg.Timeout {
		t.Errorf("HTTPClient.Timeout = %v, want %v", cfg.HTTPClient.Timeout, cfg.Timeout)
	}
}

func TestOptionsOverrideDefaults(t *testing.T) {
	customClient := &http.Client{}
	cfg := New(
		WithTimeout(5*time.Second),
		WithMaxRedirects(1),
		WithRetryPolicy(retry.Policy{Strategy: retry.Fixed, BaseDelay: time.Second, MaxRetries: 1}),
		WithHTTPClient(customClient),
		WithRedactionPolicy(RedactionPolicy{}),
	)

	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.MaxRedirects != 1 {
		t.Errorf("MaxRedirects = %d, want 1", cfg.MaxRedirects)
	}
	if cfg.HTTPClient != customClient {
		t.Error("WithHTTPClient should not be overwritten by New's nil-check")
	}
	if cfg.RetryPolicy.Strategy != retry.Fixed {
		t.Errorf("RetryPolicy.Strategy = %v, want Fixed", cfg.RetryPolicy.Strategy)
	}
	if cfg.Redaction != (RedactionPolicy{}) {
		t.Error("WithRedactionPolicy should override DefaultRedactionPolicy")
	}
}

func TestWithAllowFailoverOn451(t *testing.T) {
	cfg := New()
	if cfg.AllowFailoverOn451 {
		t.Error("AllowFailoverOn451 should default to false")
	}

	cfg = New(WithAllowFailoverOn451(true))
	if !cfg.AllowFailoverOn451 {
		t.Error("WithAllowFailoverOn451(true) did not take effect")
	}
}

func TestWithCacheSetsTTLTogether(t *testing.T) {
	c := resultcache.New(16, time.Hour)
	cfg := New(WithCache(c, 2*time.Minute))

	if cfg.Cache != c {
		t.Error("Cache not set by WithCache")
	}
	if cfg.TTL != 2*time.Minute {
		t.Errorf("TTL = %v, want 2m", cfg.TTL)
	}
}
