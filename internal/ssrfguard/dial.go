// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package ssrfguard

import (
	"context"
	"fmt"
	"net"
)

// PinnedDialContext returns a dial function that ignores the address
// net/http resolves for addr and instead connects to one of decision's
// already-classified addresses. This is what actually closes the
// check-then-connect race: without it, a rebinding attacker only needs the
// second lookup (the one the transport performs when it dials) to return a
// different, forbidden address.
func PinnedDialContext(decision *Decision, base func(ctx context.Context, network, address string) (net.Conn, error)) func(ctx context.Context, network, address string) (net.Conn, error) {
	if base == nil {
		base = (&net.Dialer{}).DialContext
	}

	return func(ctx context.Context, network, address string) (net.Conn, error) {
		if len(decision.Addrs) == 0 {
			return nil, fmt.Errorf("rdap: no validated address to dial for %s", address)
		}

		var lastErr error
		for _, addr := range decision.Addrs {
			conn, err := base(ctx, network, net.JoinHostPort(addr.String(), decision.Port))
			if err == nil {
				return conn, nil
			}
			lastErr = err
		}
		return nil, fmt.Errorf("rdap: dialing %s: %w", decision.Host, lastErr)
	}
}
