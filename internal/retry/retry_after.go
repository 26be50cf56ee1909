// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package retry

import (
	"net/http"
	"strconv"
	"time"
)

// ParseRetryAfter reads the Retry-After header per RFC 7231 §7.1.3, which
// permits either a delta-seconds integer or an HTTP-date. now is injected
// so callers can use a fake clock in tests. The second return is false if
// the header is absent or unparsable, in which case the caller should fall
// back to its own Policy.
func ParseRetryAfter(h http.Header, now time.Time) (time.Duration, bool) {
	v := h.Get("Retry-After")
	if v == "" {
		return 0, false
	}

	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}

	if when, err := http.ParseTime(v); err == nil {
		d := when.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}

	return 0, false
}
