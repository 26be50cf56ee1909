// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package rdap

import (
	"encoding/json"
	"net"
	"time"
)

// QueryKind discriminates the three canonical query shapes.
type QueryKind int

const (
	QueryDomain QueryKind = iota
	QueryIP
	QueryASN
)

func (k QueryKind) String() string {
	switch k {
	case QueryDomain:
		return "domain"
	case QueryIP:
		return "ip"
	case QueryASN:
		return "asn"
	default:
		return "unknown"
	}
}

// Query is a canonical, validated query. It is built only by
// CanonicalizeDomain/CanonicalizeIP/CanonicalizeASN (directly, or via
// Client.Domain/Client.IP/Client.ASN).
type Query struct {
	Kind   QueryKind
	Domain string
	IP     net.IP
	ASN    uint32
}

// Fingerprint is the cache key: (query kind, canonical form).
func (q Query) Fingerprint() string {
	switch q.Kind {
	case QueryDomain:
		return "domain:" + q.Domain
	case QueryIP:
		return "ip:" + q.IP.String()
	case QueryASN:
		return "asn:" + uitoa(q.ASN)
	default:
		return "unknown"
	}
}

// Path returns the RFC 7482 §3 request path for q, without a leading slash.
func (q Query) Path() string {
	switch q.Kind {
	case QueryDomain:
		return "domain/" + q.Domain
	case QueryIP:
		return "ip/" + q.IP.String()
	case QueryASN:
		return "autnum/" + uitoa(q.ASN)
	default:
		return ""
	}
}

func uitoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// Event is a normalized {type, date} pair from an RDAP "events" array.
// Date is always UTC.
type Event struct {
	Type string
	Date time.Time
}

// Notice is an RDAP "notices"/"remarks" entry.
type Notice struct {
	Title       string
	Description []string
}

// ContactCard is a jCard decoded into the fixed shape callers consume.
// Every field is optional; an empty value means "not present in source",
// never "redacted".
type ContactCard struct {
	Roles        []string
	FullName     string
	Organization string
	Kind         string
	Emails       []string
	Phones       []string
	Addresses    []string
}

// Entity is an RDAP entity: a contact (registrant, registrar, abuse, ...)
// identified by its roles. Entities may nest entities; NestingDepth records
// how deep this one was found, and NestingTruncated is set if this entity
// sits at the depth bound and its child entities were dropped (they are not
// kept in any form).
type Entity struct {
	Handle           string
	Roles            []string
	Contact          ContactCard
	Entities         []Entity
	NestingDepth     int
	NestingTruncated bool
}

// Registrar is the entity, if any, lifted from Entities into its own slot
// because its roles include "registrar".
type Registrar struct {
	Name    string
	Handle  string
	URL     string
	Contact ContactCard
}

// Nameserver is one entry of a Domain's "nameservers" array.
type Nameserver struct {
	LDHName string
	IPv4    []net.IP
	IPv6    []net.IP
}

// commonFields is the subset of state every response shape shares
// (spec.md §9 "Polymorphic response"). It is embedded, not exposed as an
// interface, so callers type-switch on the concrete response instead of a
// shared base.
type commonFields struct {
	Handle     string
	Status     []string
	RawStatus  []string
	Events     []Event
	Notices    []Notice
	Port43     string
	RawJSON    json.RawMessage
}

// Domain is the normalized shape of a domain RDAP response.
type Domain struct {
	commonFields

	LDHName     string
	UnicodeName string
	Nameservers []Nameserver
	Entities    []Entity
	Registrar   *Registrar
}

// IPNetwork is the normalized shape of an IP network RDAP response.
type IPNetwork struct {
	commonFields

	StartAddress net.IP
	EndAddress   net.IP
	CIDR         string
	Country      string
	ParentHandle string
	Entities     []Entity
}

// Autnum is the normalized shape of an Autonomous System RDAP response.
type Autnum struct {
	commonFields

	StartAutnum  uint32
	EndAutnum    uint32
	Country      string
	ParentHandle string
	Entities     []Entity
}
