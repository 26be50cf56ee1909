// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package rdap

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// idnaProfile converts U-labels to their A-label (punycode) form, grounded
// on the same validation profile the example SSRF/URL validators configure
// (ValidateLabels, VerifyDNSLength, StrictDomainName) rather than a
// hand-rolled punycode encoder.
var idnaProfile = idna.New(
	idna.ValidateLabels(true),
	idna.VerifyDNSLength(true),
	idna.StrictDomainName(false),
)

const (
	maxDomainLength = 253
	maxLabelLength  = 63
)

// CanonicalizeDomain validates and normalizes a domain name query: trims
// whitespace, lowercases, strips a trailing dot, converts any U-label to
// its A-label form, and checks every label against the LDH grammar.
func CanonicalizeDomain(input string) (string, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimSuffix(s, ".")

	if s == "" {
		return "", &Error{Kind: InvalidInput, Message: "domain: empty input", Timestamp: timeNow()}
	}

	ascii, err := idnaProfile.ToASCII(s)
	if err != nil {
		return "", &Error{Kind: InvalidInput, Message: fmt.Sprintf("domain: invalid Unicode: %v", err), Timestamp: timeNow()}
	}
	ascii = strings.ToLower(ascii)

	if len(ascii) > maxDomainLength {
		return "", &Error{Kind: InvalidInput, Message: "domain: exceeds 253 octets", Timestamp: timeNow()}
	}

	labels := strings.Split(ascii, ".")
	for _, label := range labels {
		if err := validateLabel(label); err != nil {
			return "", err
		}
	}

	return ascii, nil
}

func validateLabel(label string) error {
	if label == "" {
		return &Error{Kind: InvalidInput, Message: "domain: empty label", Timestamp: timeNow()}
	}
	if len(label) > maxLabelLength {
		return &Error{Kind: InvalidInput, Message: fmt.Sprintf("domain: label %q exceeds 63 octets", label), Timestamp: timeNow()}
	}

	for i, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			continue
		case r == '-' && i != 0 && i != len(label)-1:
			continue
		default:
			return &Error{Kind: InvalidInput, Message: fmt.Sprintf("domain: label %q has an invalid character", label), Timestamp: timeNow()}
		}
	}

	return nil
}

// CanonicalizeIP validates an IPv4 or IPv6 literal (RFC 4291 textual form,
// zone identifier stripped) and returns its canonical 4- or 16-byte form.
func CanonicalizeIP(input string) (net.IP, error) {
	s := strings.TrimSpace(input)

	if idx := strings.IndexByte(s, '%'); idx != -1 {
		s = s[:idx]
	}

	ip := net.ParseIP(s)
	if ip == nil {
		return nil, &Error{Kind: InvalidInput, Message: fmt.Sprintf("ip: %q is not a valid IPv4 or IPv6 address", input), Timestamp: timeNow()}
	}

	if v4 := ip.To4(); v4 != nil {
		return v4, nil
	}
	return ip.To16(), nil
}

// CanonicalizeASN validates an ASN query, accepting a bare decimal or an
// "AS"/"as"-prefixed decimal. "ASn-ASm" range syntax is accepted only when
// n == m, since a query must name a single AS.
func CanonicalizeASN(input string) (uint32, error) {
	s := strings.TrimSpace(input)

	if strings.Contains(s, "-") {
		parts := strings.SplitN(s, "-", 2)
		low, errLow := parseASNToken(parts[0])
		high, errHigh := parseASNToken(parts[1])
		if errLow != nil || errHigh != nil {
			return 0, &Error{Kind: InvalidInput, Message: fmt.Sprintf("asn: %q is not a valid ASN", input), Timestamp: timeNow()}
		}
		if low != high {
			return 0, &Error{Kind: InvalidInput, Message: "asn: range queries must name a single AS", Timestamp: timeNow()}
		}
		return low, nil
	}

	asn, err := parseASNToken(s)
	if err != nil {
		return 0, &Error{Kind: InvalidInput, Message: fmt.Sprintf("asn: %q is not a valid ASN", input), Timestamp: timeNow()}
	}
	return asn, nil
}

func parseASNToken(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "as") {
		s = s[2:]
	}

	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}
