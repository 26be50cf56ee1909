// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package bootstrap

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ASNRange represents a contiguous range of AS numbers and their RDAP base
// URLs. MinASN==MaxASN represents a single AS number.
type ASNRange struct {
	MinASN uint32
	MaxASN uint32
	URLs   []*url.URL
}

// String renders "ASxxxx" for a single AS, or "ASxxxx-ASyyyy" for a range.
func (a ASNRange) String() string {
	if a.MinASN == a.MaxASN {
		return fmt.Sprintf("AS%d", a.MinASN)
	}
	return fmt.Sprintf("AS%d-AS%d", a.MinASN, a.MaxASN)
}

// ASNRegistry is the parsed form of asn.json: AS number ranges sorted by
// MinASN for binary search.
type ASNRegistry struct {
	ranges []ASNRange
}

// NewASNRegistry parses an asn.json document, per RFC 7484 §5.3.
func NewASNRegistry(json []byte) (*ASNRegistry, error) {
	r, err := parse(json)
	if err != nil {
		return nil, fmt.Errorf("rdap: parsing ASN bootstrap: %w", err)
	}

	ranges := make([]ASNRange, 0, len(r.Entries))
	for key, urls := range r.Entries {
		minASN, maxASN, err := parseASNRange(key)
		if err != nil {
			continue
		}
		ranges = append(ranges, ASNRange{MinASN: minASN, MaxASN: maxASN, URLs: urls})
	}

	sort.Slice(ranges, func(i, j int) bool { return ranges[i].MinASN < ranges[j].MinASN })

	return &ASNRegistry{ranges: ranges}, nil
}

// Lookup finds the range containing the AS number named by input, which
// must already be a bare decimal string (see rdap.CanonicalizeASN).
func (a *ASNRegistry) Lookup(input string) (*Result, error) {
	asn, err := strconv.ParseUint(input, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("rdap: bootstrap: invalid AS number %q: %w", input, err)
	}

	return a.lookupASN(uint32(asn))
}

func (a *ASNRegistry) lookupASN(asn uint32) (*Result, error) {
	idx := sort.Search(len(a.ranges), func(i int) bool {
		return asn <= a.ranges[i].MaxASN
	})

	var entry string
	var urls []*url.URL

	if idx != len(a.ranges) && asn >= a.ranges[idx].MinASN && asn <= a.ranges[idx].MaxASN {
		entry = a.ranges[idx].String()
		urls = a.ranges[idx].URLs
	}

	return &Result{Query: fmt.Sprintf("%d", asn), Entry: entry, URLs: urls}, nil
}

func parseASNRange(s string) (uint32, uint32, error) {
	parts := strings.SplitN(s, "-", 2)

	minASN, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, 0, err
	}

	if len(parts) == 1 {
		return uint32(minASN), uint32(minASN), nil
	}

	maxASN, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, 0, err
	}

	if minASN > maxASN {
		return 0, 0, errors.New("rdap: malformed ASN range (min > max)")
	}

	return uint32(minASN), uint32(maxASN), nil
}
