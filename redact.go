// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package rdap

const (
	redactedEmail = "redacted@redacted.invalid"
	redactedText  = "REDACTED"
)

// RedactionPolicy enumerates which contact fields a redaction pass
// replaces, and with what placeholder.
type RedactionPolicy struct {
	RedactEmails    bool
	RedactPhones    bool
	RedactNames     bool
	RedactAddresses bool

	// PreserveOrganizations keeps FullName intact when Organization is
	// populated, even when RedactNames is set.
	PreserveOrganizations bool

	// PreserveCountryInAddress keeps only the last address component
	// (conventionally the country) when RedactAddresses is set.
	PreserveCountryInAddress bool

	// AllowRawRetention keeps RawJSON on the response; otherwise it is
	// cleared.
	AllowRawRetention bool
}

// DefaultRedactionPolicy redacts contact emails, phones, full names and
// addresses (organization, kind and roles are kept) and clears raw JSON,
// the safe-by-default posture spec.md calls for.
func DefaultRedactionPolicy() RedactionPolicy {
	return RedactionPolicy{
		RedactEmails:    true,
		RedactPhones:    true,
		RedactNames:     true,
		RedactAddresses: true,
	}
}

// redactContact returns a copy of card with policy applied; card itself
// is left unchanged. It is idempotent:
// redacting an already-redacted card is a no-op because the placeholder
// values are themselves stable fixed points.
func redactContact(card ContactCard, policy RedactionPolicy) ContactCard {
	// Emails/Phones/Addresses are slice headers copied by value above, but
	// they'd still share the caller's backing array; clone before
	// mutating in place so a cached pre-redaction value is never touched.
	if policy.RedactEmails && len(card.Emails) > 0 {
		emails := make([]string, len(card.Emails))
		for i := range emails {
			emails[i] = redactedEmail
		}
		card.Emails = emails
	}
	if policy.RedactPhones && len(card.Phones) > 0 {
		phones := make([]string, len(card.Phones))
		for i := range phones {
			phones[i] = redactedText
		}
		card.Phones = phones
	}
	if policy.RedactNames {
		if card.Organization == "" || !policy.PreserveOrganizations {
			card.FullName = redactedText
		}
	}
	if policy.RedactAddresses && len(card.Addresses) > 0 {
		addrs := make([]string, len(card.Addresses))
		for i := range addrs {
			addrs[i] = redactAddress(card.Addresses[i], policy)
		}
		card.Addresses = addrs
	}
	return card
}

func redactAddress(addr string, policy RedactionPolicy) string {
	if !policy.PreserveCountryInAddress {
		return redactedText
	}
	// The last comma-separated component is conventionally the country
	// token in the joined single-line address normalize.go produces.
	last := addr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ',' {
			last = addr[i+1:]
			break
		}
	}
	return redactedText + ", " + trimSpace(last)
}

func trimSpace(s string) string {
	start := 0
	for start < len(s) && s[start] == ' ' {
		start++
	}
	end := len(s)
	for end > start && s[end-1] == ' ' {
		end--
	}
	return s[start:end]
}

func redactEntities(entities []Entity, policy RedactionPolicy) []Entity {
	out := make([]Entity, len(entities))
	for i, e := range entities {
		e.Contact = redactContact(e.Contact, policy)
		e.Entities = redactEntities(e.Entities, policy)
		out[i] = e
	}
	return out
}

// Redact returns a redacted copy of resp. It never mutates resp, and
// applying it twice to the same input is equivalent to applying it once.
func Redact(resp interface{}, policy RedactionPolicy) interface{} {
	switch v := resp.(type) {
	case Domain:
		return redactDomain(v, policy)
	case *Domain:
		d := redactDomain(*v, policy)
		return &d
	case IPNetwork:
		return redactIPNetwork(v, policy)
	case *IPNetwork:
		n := redactIPNetwork(*v, policy)
		return &n
	case Autnum:
		return redactAutnum(v, policy)
	case *Autnum:
		a := redactAutnum(*v, policy)
		return &a
	default:
		return resp
	}
}

func redactDomain(d Domain, policy RedactionPolicy) Domain {
	d.Entities = redactEntities(d.Entities, policy)
	if d.Registrar != nil {
		r := *d.Registrar
		r.Contact = redactContact(r.Contact, policy)
		d.Registrar = &r
	}
	if !policy.AllowRawRetention {
		d.RawJSON = nil
	}
	return d
}

func redactIPNetwork(n IPNetwork, policy RedactionPolicy) IPNetwork {
	n.Entities = redactEntities(n.Entities, policy)
	if !policy.AllowRawRetention {
		n.RawJSON = nil
	}
	return n
}

func redactAutnum(a Autnum, policy RedactionPolicy) Autnum {
	a.Entities = redactEntities(a.Entities, policy)
	if !policy.AllowRawRetention {
		a.RawJSON = nil
	}
	return a
}
